package library

import (
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".bmp":  true,
	".ico":  true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".ogv":  true,
	".ogg":  true,
	".mkv":  true,
	".flv":  true,
	".avi":  true,
	".wmv":  true,
	".mpeg": true,
	".mpg":  true,
	".ts":   true,
	".m2ts": true,
	".m2v":  true,
	".vob":  true,
	".3gp":  true,
	".swf":  true,
	".asf":  true,
	".ra":   true,
	".ram":  true,
	".rm":   true,
}

// IsImage reports whether the path's extension is in the image table.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// IsVideo reports whether the path's extension is in the video table.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}
