package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

type Cli struct {
	Bind     string
	Port     int
	CacheDir string
	RootDirs []string
}

// ListenAddr joins the bind address and port into a host:port string.
func (cli *Cli) ListenAddr() string {
	return net.JoinHostPort(cli.Bind, strconv.Itoa(cli.Port))
}

// HLSDir is where transcode job directories live, one per cache key.
func (cli *Cli) HLSDir() string {
	return filepath.Join(cli.CacheDir, "hls")
}

// DefaultCacheDir returns the per-user cache location used when
// --cache-dir is not given.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user cache dir: %w", err)
	}
	return filepath.Join(base, "media_browser_cache"), nil
}

// ValidateRoots checks that every configured root exists and is a
// directory. Name uniqueness is enforced when the library is built,
// since names are derived from resolved paths.
func ValidateRoots(dirs []string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("at least one media directory is required")
	}
	for _, d := range dirs {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("Not a directory: %s", d)
		}
	}
	return nil
}
