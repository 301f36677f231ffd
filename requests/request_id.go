package requests

import (
	"net/http"

	"github.com/openkast/mediabrowser/config"
)

const requestIDHeader = "requestID"

// GetRequestID returns the request's ID, minting and attaching a random
// one if the client did not send any.
func GetRequestID(req *http.Request) string {
	requestID := req.Header.Get(requestIDHeader)
	if requestID != "" {
		return requestID
	}
	requestID = config.RandomTrailer(8)
	req.Header.Set(requestIDHeader, requestID)
	return requestID
}
