package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"

	"github.com/openkast/mediabrowser/errors"
	"github.com/openkast/mediabrowser/library"
)

type LibraryHandlersCollection struct {
	Library *library.Library
}

// Tree returns the recursive directory tree of every root.
func (c *LibraryHandlersCollection) Tree() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		writeJSON(w, map[string][]library.TreeNode{"dirs": c.Library.Tree()})
	}
}

type listBatchEntry struct {
	Path  string  `json:"path"`
	Since float64 `json:"since,omitempty"`
}

type notModified struct {
	NotModified bool `json:"not_modified"`
}

type dirListing struct {
	NotModified bool            `json:"not_modified"`
	Mtime       *float64        `json:"mtime"`
	Files       []library.Entry `json:"files"`
}

// ListBatch lists several directories in one round trip. Entries whose
// directory has not changed since the client's recorded mtime collapse
// to {"not_modified": true}; missing directories are reported as data
// with a null mtime. Anything malformed fails the whole batch with 400.
func (c *LibraryHandlersCollection) ListBatch() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		var batch []listBatchEntry
		if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
			errors.WriteHTTPBadRequest(w, "Invalid request body", err)
			return
		}

		result := make(map[string]interface{}, len(batch))
		for _, entry := range batch {
			dir, err := c.Library.Resolve(entry.Path)
			if err != nil {
				errors.WriteHTTPBadRequest(w, "Invalid path in request", err)
				return
			}
			listing, err := library.List(dir)
			if os.IsNotExist(err) {
				result[entry.Path] = dirListing{Mtime: nil, Files: []library.Entry{}}
				continue
			}
			if err != nil {
				errors.WriteHTTPBadRequest(w, "Error listing directory", err)
				return
			}
			if entry.Since != 0 && listing.Mtime <= entry.Since {
				result[entry.Path] = notModified{NotModified: true}
				continue
			}
			mtime := listing.Mtime
			result[entry.Path] = dirListing{Mtime: &mtime, Files: listing.Files}
		}
		writeJSON(w, result)
	}
}
