package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/golang/glog"
	"github.com/peterbourgon/ff/v3"
	"golang.org/x/sync/errgroup"

	"github.com/openkast/mediabrowser/api"
	"github.com/openkast/mediabrowser/cache"
	"github.com/openkast/mediabrowser/config"
	"github.com/openkast/mediabrowser/library"
	"github.com/openkast/mediabrowser/thumbnails"
	"github.com/openkast/mediabrowser/transcode"
	"github.com/openkast/mediabrowser/video"
)

func main() {
	cli := config.Cli{}
	fs := flag.NewFlagSet("media-browser", flag.ExitOnError)
	fs.StringVar(&cli.Bind, "bind", "0.0.0.0", "IP address to bind to")
	fs.IntVar(&cli.Port, "port", 7000, "Port to listen on")
	fs.StringVar(&cli.CacheDir, "cache-dir", "", "Directory to store cached thumbnails and transcodes (default: per-user cache directory)")
	version := fs.Bool("version", false, "print application version")

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("MEDIA_BROWSER"),
	); err != nil {
		glog.Fatalf("error parsing cli flags: %s", err)
	}

	if *version {
		fmt.Printf("media-browser version: %s\n", config.Version)
		return
	}

	cli.RootDirs = fs.Args()

	if cli.CacheDir == "" {
		dir, err := config.DefaultCacheDir()
		if err != nil {
			glog.Fatalf("error finding default cache dir: %s", err)
		}
		cli.CacheDir = dir
		fmt.Printf("Using default directory: %s\n", dir)
	} else {
		abs, err := filepath.Abs(cli.CacheDir)
		if err != nil {
			glog.Fatalf("error resolving cache dir: %s", err)
		}
		cli.CacheDir = abs
	}

	if err := config.ValidateRoots(cli.RootDirs); err != nil {
		glog.Fatal(err)
	}
	lib, err := library.New(cli.RootDirs)
	if err != nil {
		glog.Fatal(err)
	}
	if err := os.MkdirAll(cli.HLSDir(), 0755); err != nil {
		glog.Fatalf("error creating cache dir: %s", err)
	}

	store := cache.Store{ThumbDir: cli.CacheDir, HLSDir: cli.HLSDir()}
	thumbs := thumbnails.NewGenerator(store)
	registry := transcode.NewRegistry(video.HLSCommand)
	router := api.NewMediaBrowserRouter(lib, store, thumbs, registry, video.Probe{})

	fmt.Printf("\nOpen in browser: %s\n\n", browserURL(cli))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return api.ListenAndServe(ctx, cli.ListenAddr(), router)
	})
	group.Go(func() error {
		return registry.RunReaper(ctx)
	})

	if err := group.Wait(); err != nil {
		glog.Fatalf("error running media browser: %s", err)
	}
}

// browserURL guesses the address a browser can reach the server on. A
// wildcard bind is replaced by the machine's hostname when it looks
// fully qualified, else localhost.
func browserURL(cli config.Cli) string {
	host := cli.Bind
	if host == "0.0.0.0" || host == "::" {
		host = localHostname()
	}
	return fmt.Sprintf("http://%s:%d", host, cli.Port)
}

func localHostname() string {
	name, err := os.Hostname()
	if err == nil && name != "localhost" && strings.Contains(name, ".") {
		return name
	}
	return "localhost"
}
