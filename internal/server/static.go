package server

import (
	_ "embed"
	"net/http"
)

//go:embed web/index.html
var widgetPage []byte

// handleIndex serves the chat widget page.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write(widgetPage)
}
