package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/openkast/mediabrowser/errors"
	"github.com/openkast/mediabrowser/static"
)

type StaticHandlersCollection struct{}

// Index serves the embedded single-page front-end shell.
func (c *StaticHandlersCollection) Index() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		content, err := static.FS.ReadFile("media_browser.html")
		if err != nil {
			errors.WriteHTTPInternalServerError(w, "Missing front-end shell", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(content)
	}
}
