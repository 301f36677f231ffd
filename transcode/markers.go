package transcode

import (
	"os"
	"path/filepath"
)

// Marker filenames recording transcode state inside a job directory.
// They are zero-byte files and, together with the thumbnail sentinel,
// the system's only persistent state beyond the artifacts themselves.
const (
	MarkerIncomplete = "incomplete"
	MarkerComplete   = "complete"
	MarkerError      = "error"
)

func touchMarker(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), nil, 0644)
}

// HasMarker reports whether the named state marker exists in a job
// directory.
func HasMarker(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
