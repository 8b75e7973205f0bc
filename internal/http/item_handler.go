package http

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"kakeistat/internal/catalog"
	"kakeistat/internal/export"
	"kakeistat/internal/httpx"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

type ItemHandler struct {
	svc DownloadService
}

func NewItemHandler(svc DownloadService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// List serves GET /v1/items?q=&limit=.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	items := h.svc.Search(query.Get("q"))
	total := len(items)
	if total > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []catalog.Item{}
	}

	httpx.JSONSuccess(w, r, items, map[string]any{"total": total, "limit": limit})
}

// Get serves GET /v1/items/{code}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Item(r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

type countResponse struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Rows        int    `json:"rows"`
}

// Count serves GET /v1/items/{code}/count.
func (h *ItemHandler) Count(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	item, err := h.svc.Item(code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	n, err := h.svc.Count(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, countResponse{Code: code, DisplayName: item.Label(), Rows: n}, nil)
}

// CSV serves GET /v1/items/{code}/csv. An item without data answers 204.
func (h *ItemHandler) CSV(w http.ResponseWriter, r *http.Request) {
	item, table, err := h.svc.Table(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if table.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	name := export.FileName(item.Label())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.csv"; filename*=UTF-8''%s`, item.Code, url.PathEscape(name)))
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, table); err != nil {
		log.Printf("csv write failed: request_id=%s code=%s error=%v", httpx.RequestIDFrom(r), item.Code, err)
	}
}
