package requests

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRequestIDUsesClientHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("requestID", "client-id")
	require.Equal(t, "client-id", GetRequestID(req))
}

func TestGetRequestIDMintsAndSticks(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	id := GetRequestID(req)
	require.Len(t, id, 8)
	// Subsequent calls on the same request see the minted ID.
	require.Equal(t, id, GetRequestID(req))
}
