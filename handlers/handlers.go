// Package handlers translates API calls into operations on the library,
// the thumbnail cache and the transcode registry, and shapes the
// responses. One collection per endpoint family.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/openkast/mediabrowser/log"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.LogNoRequestID("error writing JSON response", "err", err)
	}
}

// validPathComponent rejects anything that could leave a job directory
// when joined onto it.
func validPathComponent(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '\\' {
			return false
		}
	}
	return true
}
