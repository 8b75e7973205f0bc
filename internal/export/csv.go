// Package export writes normalized tables as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"kakeistat/internal/stats"
)

const (
	filePrefix = "家計調査_"
	fileSuffix = "_月次.csv"
)

// utf8BOM lets spreadsheet software detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// SafeName replaces every character that is not a letter, digit or
// underscore with an underscore.
func SafeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// FileName is the CSV file name for an item's display name.
func FileName(displayName string) string {
	return filePrefix + SafeName(displayName) + fileSuffix
}

// WriteCSV writes a BOM, a header row and one line per table row. Nil cells
// are written as empty fields.
func WriteCSV(w io.Writer, t stats.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes t to dir under FileName(displayName) and returns the path.
// The file is written to a temporary name first, so a failed write never
// leaves a partial CSV behind.
func SaveCSV(dir, displayName string, t stats.Table) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, FileName(displayName))
	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteCSV(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed moving file %s: %w", path, err)
	}
	return path, nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
