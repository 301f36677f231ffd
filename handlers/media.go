package handlers

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"

	apierrs "github.com/openkast/mediabrowser/errors"
	"github.com/openkast/mediabrowser/library"
	"github.com/openkast/mediabrowser/log"
	"github.com/openkast/mediabrowser/requests"
	"github.com/openkast/mediabrowser/thumbnails"
)

type MediaHandlersCollection struct {
	Library    *library.Library
	Thumbnails *thumbnails.Generator
}

// Thumbnail serves the cached JPEG thumbnail for ?path=, generating it
// on miss. A remembered generation failure is a 410 so clients can stop
// asking.
func (c *MediaHandlersCollection) Thumbnail() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		requestID := requests.GetRequestID(req)
		ctx := log.WithLogValues(req.Context(), "request_id", requestID)

		src, err := c.Library.Resolve(req.URL.Query().Get("path"))
		if err != nil {
			apierrs.WriteHTTPNotFound(w, "Invalid path", err)
			return
		}
		thumb, err := c.Thumbnails.EnsureThumb(ctx, src)
		switch {
		case errors.Is(err, thumbnails.ErrSourceMissing):
			apierrs.WriteHTTPNotFound(w, "Source not found", err)
		case errors.Is(err, thumbnails.ErrCachedFailure):
			apierrs.WriteHTTPGone(w, "Missing thumbnail", err)
		case err != nil:
			apierrs.WriteHTTPInternalServerError(w, "Error generating thumbnail", err)
		default:
			w.Header().Set("Content-Type", "image/jpeg")
			http.ServeFile(w, req, thumb)
		}
	}
}

// File serves the raw source file for ?path= with an extension-guessed
// MIME type.
func (c *MediaHandlersCollection) File() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		src, err := c.Library.Resolve(req.URL.Query().Get("path"))
		if err != nil {
			apierrs.WriteHTTPNotFound(w, "Invalid path", err)
			return
		}
		info, err := os.Stat(src)
		if err != nil || !info.Mode().IsRegular() {
			apierrs.WriteHTTPNotFound(w, "Source not found", err)
			return
		}
		contentType := mime.TypeByExtension(filepath.Ext(src))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, req, src)
	}
}
