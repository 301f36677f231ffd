package api

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openkast/mediabrowser/cache"
	"github.com/openkast/mediabrowser/config"
	"github.com/openkast/mediabrowser/handlers"
	"github.com/openkast/mediabrowser/library"
	"github.com/openkast/mediabrowser/log"
	"github.com/openkast/mediabrowser/middleware"
	"github.com/openkast/mediabrowser/static"
	"github.com/openkast/mediabrowser/thumbnails"
	"github.com/openkast/mediabrowser/transcode"
	"github.com/openkast/mediabrowser/video"
)

func ListenAndServe(ctx context.Context, addr string, router http.Handler) error {
	server := http.Server{Addr: addr, Handler: router}
	ctx, cancel := context.WithCancel(ctx)

	log.LogNoRequestID(
		"Starting Media Browser!",
		"version", config.Version,
		"host", addr,
	)

	var err error
	go func() {
		err = server.ListenAndServe()
		cancel()
	}()

	<-ctx.Done()
	if err != nil {
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

func NewMediaBrowserRouter(
	lib *library.Library,
	store cache.Store,
	thumbs *thumbnails.Generator,
	registry *transcode.Registry,
	prober video.Prober,
) *httprouter.Router {
	router := httprouter.New()
	withLogging := middleware.LogRequest()
	withMetrics := middleware.Metrics

	staticHandlers := &handlers.StaticHandlersCollection{}
	libraryHandlers := &handlers.LibraryHandlersCollection{Library: lib}
	mediaHandlers := &handlers.MediaHandlersCollection{Library: lib, Thumbnails: thumbs}
	hlsHandlers := &handlers.HLSHandlersCollection{
		Library:  lib,
		Store:    store,
		Registry: registry,
		Prober:   prober,
	}

	// Front-end shell
	router.GET("/", withLogging(withMetrics("/", staticHandlers.Index())))
	router.ServeFiles("/static/*filepath", http.FS(static.FS))

	// Library browsing
	router.GET("/api/tree", withLogging(withMetrics("/api/tree", libraryHandlers.Tree())))
	router.POST("/api/list-batch", withLogging(withMetrics("/api/list-batch", libraryHandlers.ListBatch())))

	// Media delivery
	router.GET("/api/thumb", withLogging(withMetrics("/api/thumb", mediaHandlers.Thumbnail())))
	router.GET("/api/file", withLogging(withMetrics("/api/file", mediaHandlers.File())))

	// Transcoding
	router.GET("/api/start_hls", withLogging(withMetrics("/api/start_hls", hlsHandlers.StartHLS())))
	router.GET("/hls/:key/:file", withLogging(withMetrics("/hls/:key/:file", hlsHandlers.ServeHLS())))

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}
