package estat

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter maps a semantic dimension key to a single code.
//
//	estat.Filter{"item": "001", "household": "10", "area": "00000"}
type Filter map[string]string

// Semantic aliases for the numbered category slots used by the household survey tables.
var categoryAliases = map[string]int{
	"item":      1,
	"household": 2,
}

// BuildParams turns a Filter into the cd* query parameters getStatsData expects.
// Code values are passed through untouched.
func BuildParams(f Filter) (url.Values, error) {
	params := make(url.Values, len(f))
	owner := make(map[string]string, len(f))

	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := paramName(key)
		if prev, ok := owner[name]; ok {
			return nil, configError(fmt.Sprintf("filter keys %q and %q both map to %s", prev, key, name))
		}
		owner[name] = key
		params.Set(name, f[key])
	}
	return params, nil
}

func paramName(key string) string {
	switch key {
	case "time":
		return "cdTime"
	case "area":
		return "cdArea"
	case "tab":
		return "cdTab"
	}
	if n, ok := categoryAliases[key]; ok {
		return categoryParam(n)
	}
	if n, ok := categoryNumber(key); ok {
		return categoryParam(n)
	}
	return "cd" + capitalize(key)
}

// categoryNumber accepts "cat1", "cat01", "category1" and "category-1".
func categoryNumber(key string) (int, bool) {
	var rest string
	switch {
	case strings.HasPrefix(key, "category"):
		rest = strings.TrimPrefix(strings.TrimPrefix(key, "category"), "-")
	case strings.HasPrefix(key, "cat"):
		rest = strings.TrimPrefix(key, "cat")
	default:
		return 0, false
	}
	if rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func categoryParam(n int) string {
	return fmt.Sprintf("cdCat%02d", n)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
