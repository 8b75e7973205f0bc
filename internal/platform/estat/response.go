package estat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one observation as returned in DATA_INF.VALUE. Attribute keys
// carry an "@" prefix and the observation itself is keyed "$".
type Record map[string]any

// Envelope matches the getStatsData JSON response.
type Envelope struct {
	GetStatsData struct {
		Result          Result          `json:"RESULT"`
		StatisticalData StatisticalData `json:"STATISTICAL_DATA"`
	} `json:"GET_STATS_DATA"`
}

type Result struct {
	Status   *int   `json:"STATUS"`
	ErrorMsg string `json:"ERROR_MSG"`
	Date     string `json:"DATE"`
}

type StatisticalData struct {
	ResultInf struct {
		TotalNumber Count `json:"TOTAL_NUMBER"`
		FromNumber  Count `json:"FROM_NUMBER"`
		ToNumber    Count `json:"TO_NUMBER"`
	} `json:"RESULT_INF"`
	DataInf struct {
		Values Values `json:"VALUE"`
	} `json:"DATA_INF"`
}

// Total returns the server-reported number of matching rows.
func (e *Envelope) Total() int {
	return int(e.GetStatsData.StatisticalData.ResultInf.TotalNumber)
}

// Records returns the page's records, always as a slice.
func (e *Envelope) Records() []Record {
	return e.GetStatsData.StatisticalData.DataInf.Values
}

// Count is a row count that may arrive as a JSON number or a numeric string.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", s, err)
	}
	*c = Count(n)
	return nil
}

// Values decodes VALUE, which is a bare object when exactly one row matches
// and an array otherwise.
type Values []Record

func (v *Values) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = nil
		return nil
	case data[0] == '{':
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		*v = Values{rec}
		return nil
	default:
		var recs []Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return err
		}
		*v = recs
		return nil
	}
}

// CheckResponse fails unless RESULT.STATUS is 0.
func CheckResponse(env *Envelope) error {
	if env == nil {
		return apiError("empty response", 0, nil)
	}
	result := env.GetStatsData.Result
	if result.Status != nil && *result.Status == 0 {
		return nil
	}

	msg := result.ErrorMsg
	if msg == "" {
		msg = "unknown error"
	}
	status := 0
	if result.Status != nil {
		status = *result.Status
	}
	return apiError(msg, status, nil)
}
