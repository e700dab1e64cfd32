package handlers

import (
	"net/http"
)

// IndexSource renders the current llms.txt.
type IndexSource interface {
	Index() string
}

// HandleIndex serves llms.txt.
func HandleIndex(src IndexSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, "text/plain; charset=utf-8", []byte(src.Index()))
	}
}
