package estat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	status int
	msg    string
	total  any
	values any
}

func (p page) body() map[string]any {
	return map[string]any{
		"GET_STATS_DATA": map[string]any{
			"RESULT": map[string]any{"STATUS": p.status, "ERROR_MSG": p.msg},
			"STATISTICAL_DATA": map[string]any{
				"RESULT_INF": map[string]any{"TOTAL_NUMBER": p.total},
				"DATA_INF":   map[string]any{"VALUE": p.values},
			},
		},
	}
}

// fakeAPI serves pages keyed by startPosition and records every query.
type fakeAPI struct {
	pages   map[int]page
	calls   atomic.Int32
	mu      sync.Mutex
	queries []map[string]string
}

func (f *fakeAPI) query(i int) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[i]
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.Equal(t, "/getStatsData", r.URL.Path)

		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()

		start := 1
		if s := q["startPosition"]; s != "" {
			start, _ = strconv.Atoi(s)
		}
		p, ok := f.pages[start]
		if !ok {
			p = page{total: 0}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p.body())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rec(time, value string) map[string]any {
	return map[string]any{"@time": time, "@cat01": "001", "@area": "00000", "@unit": "円", "$": value}
}

func newTestClient(baseURL string, pageSize int) *Client {
	return NewClient(Config{BaseURL: baseURL, AppID: "test-app", PageSize: pageSize})
}

func TestClient_Fetch_PagesUntilTotal(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{
		1: {total: 2, values: rec("2025000101", "100")},
		2: {total: 2, values: rec("2025000202", "N/A")},
	}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 1).Fetch(context.Background(), "0003000000",
		Filter{"item": "001", "household": "10", "area": "00000"})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "100", records[0]["$"])
	assert.Equal(t, "N/A", records[1]["$"])
	assert.EqualValues(t, 2, api.calls.Load())

	first := api.query(0)
	assert.Equal(t, "test-app", first["appId"])
	assert.Equal(t, "0003000000", first["statsDataId"])
	assert.Equal(t, "1", first["limit"])
	assert.Equal(t, "1", first["startPosition"])
	assert.Equal(t, "001", first["cdCat01"])
	assert.Equal(t, "10", first["cdCat02"])
	assert.Equal(t, "00000", first["cdArea"])
	assert.Equal(t, "2", api.query(1)["startPosition"])
}

func TestClient_Fetch_RequestBound(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{
		1: {total: 5, values: []any{rec("t1", "1"), rec("t2", "2")}},
		3: {total: 5, values: []any{rec("t3", "3"), rec("t4", "4")}},
		5: {total: 5, values: []any{rec("t5", "5")}},
	}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 2).Fetch(context.Background(), "id", Filter{})
	require.NoError(t, err)

	assert.Len(t, records, 5)
	assert.EqualValues(t, 3, api.calls.Load())
	for i, r := range records {
		assert.Equal(t, "t"+strconv.Itoa(i+1), r["@time"])
	}
}

func TestClient_Fetch_StopsOnEmptyPage(t *testing.T) {
	// Server overstates the total; the empty third page ends the loop.
	api := &fakeAPI{pages: map[int]page{
		1: {total: 10, values: []any{rec("t1", "1"), rec("t2", "2")}},
		3: {total: 10, values: []any{rec("t3", "3")}},
		5: {total: 10, values: []any{}},
	}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 2).Fetch(context.Background(), "id", Filter{})
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.EqualValues(t, 3, api.calls.Load())
}

func TestClient_Fetch_NeverExceedsTotal(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{
		1: {total: 3, values: []any{rec("t1", "1"), rec("t2", "2")}},
		3: {total: 3, values: []any{rec("t3", "3"), rec("t4", "4")}},
	}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 2).Fetch(context.Background(), "id", Filter{})
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, "t3", records[2]["@time"])
}

func TestClient_Fetch_EmptyResult(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{1: {total: 0}}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 100).Fetch(context.Background(), "id", Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Fetch_APIErrorAbortsWithoutPartialResult(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{
		1: {total: 2, values: rec("t1", "1")},
		2: {status: 1, msg: "invalid code"},
	}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 1).Fetch(context.Background(), "id", Filter{"item": "999"})
	require.Error(t, err)
	assert.Nil(t, records)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindAPI, apiErr.Kind)
	assert.Equal(t, "invalid code", apiErr.Message)
	assert.Equal(t, 1, apiErr.Status)
}

func TestClient_Fetch_ErrorOnFirstPage(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{1: {status: 1, msg: "invalid code"}}}
	srv := api.server(t)

	records, err := newTestClient(srv.URL, 100).Fetch(context.Background(), "id", Filter{})
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrAPI))
	assert.Contains(t, err.Error(), "invalid code")
}

func TestClient_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 100).Count(context.Background(), "id", Filter{})

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindAPI, apiErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 100).Fetch(context.Background(), "id", Filter{})
	assert.True(t, errors.Is(err, ErrAPI))
}

func TestClient_Count(t *testing.T) {
	api := &fakeAPI{pages: map[int]page{1: {total: "480", values: rec("t1", "1")}}}
	srv := api.server(t)

	n, err := newTestClient(srv.URL, 100).Count(context.Background(), "0003000000", Filter{"area": "00000"})
	require.NoError(t, err)

	assert.Equal(t, 480, n)
	assert.EqualValues(t, 1, api.calls.Load())
	assert.Equal(t, "1", api.query(0)["limit"])
	assert.Equal(t, "00000", api.query(0)["cdArea"])
}

func TestClient_MissingAppID(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Fetch(context.Background(), "id", Filter{})
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = c.Count(context.Background(), "id", Filter{})
	assert.True(t, errors.Is(err, ErrConfig))
	assert.False(t, errors.Is(err, ErrAPI))

	assert.EqualValues(t, 0, api.calls.Load())
}
