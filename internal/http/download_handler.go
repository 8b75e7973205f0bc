package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"kakeistat/internal/httpx"
)

type DownloadHandler struct {
	svc DownloadService
}

func NewDownloadHandler(svc DownloadService) *DownloadHandler {
	return &DownloadHandler{svc: svc}
}

type downloadReq struct {
	Codes []string `json:"codes" validate:"required,min=1,max=50,dive,required,item_code"`
}

// Create serves POST /v1/downloads. The CSV files are written to the
// server's save directory; per-item failures are part of the 201 body.
func (h *DownloadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req downloadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	for i, code := range req.Codes {
		req.Codes[i] = strings.TrimSpace(code)
	}

	if details := ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	for _, code := range req.Codes {
		if _, err := h.svc.Item(code); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	batch := h.svc.DownloadSelection(r.Context(), dedupe(req.Codes))
	httpx.JSONSuccessCreated(w, r, batch)
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
