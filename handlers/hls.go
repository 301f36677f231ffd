package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/openkast/mediabrowser/cache"
	"github.com/openkast/mediabrowser/config"
	"github.com/openkast/mediabrowser/errors"
	"github.com/openkast/mediabrowser/library"
	"github.com/openkast/mediabrowser/log"
	"github.com/openkast/mediabrowser/requests"
	"github.com/openkast/mediabrowser/transcode"
	"github.com/openkast/mediabrowser/video"
)

const (
	defaultPlaylistTimeout = 10 * time.Second
	defaultPollInterval    = 200 * time.Millisecond
)

type HLSHandlersCollection struct {
	Library  *library.Library
	Store    cache.Store
	Registry *transcode.Registry
	Prober   video.Prober

	// PlaylistTimeout bounds how long a play request blocks on the first
	// playlist of a fresh transcode; tests shorten it.
	PlaylistTimeout time.Duration
	PollInterval    time.Duration
}

type hlsResponse struct {
	Playlist string `json:"playlist,omitempty"`
	Error    string `json:"error,omitempty"`
}

// StartHLS resolves ?path=, probes it, and returns the playlist URL for
// its transcode, starting or reusing a job as needed. Permanent
// failures surface from the on-disk markers; everything after a
// successful resolve is a JSON body on HTTP 200, so the front end can
// show the message.
func (c *HLSHandlersCollection) StartHLS() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		requestID := requests.GetRequestID(req)
		ctx := log.WithLogValues(req.Context(), "request_id", requestID)

		src, err := c.Library.Resolve(req.URL.Query().Get("path"))
		if err != nil {
			errors.WriteHTTPNotFound(w, "Invalid path", err)
			return
		}
		if info, err := os.Stat(src); err != nil || !info.Mode().IsRegular() {
			errors.WriteHTTPNotFound(w, "Source not found", err)
			return
		}

		info, err := c.Prober.ProbeFile(ctx, src)
		if err != nil {
			log.LogCtx(ctx, "probe failed", "src", library.EncodeName(src), "err", err)
		}
		if err != nil || info == nil {
			writeJSON(w, hlsResponse{Error: "Not a video or audio file"})
			return
		}

		key := cache.Key(src)
		outDir := c.Store.JobDir(key)
		playlistURL := fmt.Sprintf("/hls/%s/%s", key, config.PlaylistName)

		if transcode.HasMarker(outDir, transcode.MarkerComplete) {
			log.LogCtx(ctx, "have complete marker", "key", key)
			writeJSON(w, hlsResponse{Playlist: playlistURL})
			return
		}
		if transcode.HasMarker(outDir, transcode.MarkerError) {
			log.LogCtx(ctx, "have error marker", "key", key)
			writeJSON(w, hlsResponse{Error: "Transcode unavailable"})
			return
		}

		_, newJob, err := c.Registry.StartOrReuse(ctx, src, key, outDir, info)
		if err != nil {
			log.LogCtx(ctx, "error starting HLS job", "key", key, "err", err)
			writeJSON(w, hlsResponse{Error: "Error starting HLS job"})
			return
		}
		log.LogCtx(ctx, "HLS job running", "key", key, "new_job", newJob)

		playlist := filepath.Join(outDir, config.PlaylistName)
		if !transcode.WaitFileReady(ctx, playlist, c.playlistTimeout(), c.pollInterval()) {
			writeJSON(w, hlsResponse{Error: "Transcode failed or timed out"})
			return
		}
		writeJSON(w, hlsResponse{Playlist: playlistURL})
	}
}

// ServeHLS serves the playlist and segment files of a job directory and
// bumps the job's liveness. Playlist fetches bump only when the file
// exists; segment fetches bump even when the segment is not there yet,
// so a client running ahead of the transcoder still keeps the job
// alive.
func (c *HLSHandlersCollection) ServeHLS() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		key := params.ByName("key")
		name := params.ByName("file")
		if !validPathComponent(key) || !validPathComponent(name) {
			errors.WriteHTTPNotFound(w, "Invalid path", nil)
			return
		}
		path := filepath.Join(c.Store.JobDir(key), name)

		if name == config.PlaylistName {
			if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
				errors.WriteHTTPNotFound(w, "No such playlist", err)
				return
			}
			c.Registry.Bump(key)
			w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
			http.ServeFile(w, req, path)
			return
		}

		c.Registry.Bump(key)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			errors.WriteHTTPNotFound(w, "No such segment", err)
			return
		}
		w.Header().Set("Content-Type", "video/MP2T")
		http.ServeFile(w, req, path)
	}
}

func (c *HLSHandlersCollection) playlistTimeout() time.Duration {
	if c.PlaylistTimeout > 0 {
		return c.PlaylistTimeout
	}
	return defaultPlaylistTimeout
}

func (c *HLSHandlersCollection) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}
