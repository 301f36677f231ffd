package library

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one media file inside a directory listing.
type Entry struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Mtime float64 `json:"mtime"`
	Size  int64   `json:"size"`
}

// Listing is the contents of one directory: its media files plus the
// directory's own mtime, which clients use to skip unchanged
// directories. The mtime does not recurse; subdirectory changes are
// invisible to it.
type Listing struct {
	Mtime float64
	Files []Entry
}

// List enumerates the media files directly inside dir, in directory
// order. Dot-prefixed names and files outside the media tables are
// skipped.
func List(dir string) (*Listing, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	listing := &Listing{Mtime: unixSeconds(info.ModTime()), Files: []Entry{}}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		var kind string
		switch {
		case IsImage(name):
			kind = "image"
		case IsVideo(name):
			kind = "video"
		default:
			continue
		}
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		listing.Files = append(listing.Files, Entry{
			Name:  EncodeName(name),
			Type:  kind,
			Mtime: unixSeconds(st.ModTime()),
			Size:  st.Size(),
		})
	}
	return listing, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
