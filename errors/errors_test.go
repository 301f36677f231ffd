package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItWritesAJSONBodyAndStatusCode(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteHTTPNotFound(rr, "no such thing", fmt.Errorf("stat failed"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "no such thing", body["error"])
	require.Equal(t, "stat failed", body["error_detail"])
}

func TestItOmitsDetailForNilErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteHTTPGone(rr, "Missing thumbnail", nil)

	require.Equal(t, http.StatusGone, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "Missing thumbnail", body["error"])
	require.Equal(t, "", body["error_detail"])
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		write func(w http.ResponseWriter, msg string, err error) apiError
		want  int
	}{
		{WriteHTTPBadRequest, http.StatusBadRequest},
		{WriteHTTPNotFound, http.StatusNotFound},
		{WriteHTTPGone, http.StatusGone},
		{WriteHTTPInternalServerError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		apiErr := tt.write(rr, "msg", nil)
		require.Equal(t, tt.want, rr.Code)
		require.Equal(t, tt.want, apiErr.Status)
	}
}
