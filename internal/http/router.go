package http

import "net/http"

// Routes registers the /v1 API on mux.
func Routes(mux *http.ServeMux, items *ItemHandler, downloads *DownloadHandler) {
	mux.HandleFunc("GET /v1/items", items.List)
	mux.HandleFunc("GET /v1/items/{code}", items.Get)
	mux.HandleFunc("GET /v1/items/{code}/count", items.Count)
	mux.HandleFunc("GET /v1/items/{code}/csv", items.CSV)
	mux.HandleFunc("POST /v1/downloads", downloads.Create)
}
