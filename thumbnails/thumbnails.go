/*
Package thumbnails is the content-addressed thumbnail cache. Given a
media source it returns the path of a ready JPEG thumbnail, generating
one on miss and remembering permanent failures with a zero-byte
sentinel at the destination.

Generation is not serialized: two concurrent requests for the same
source may both generate, and the last rename wins. That is fine
because generation is idempotent up to file identity, and the
temp-file-plus-rename write keeps partial output from ever being
visible at the cached location.
*/
package thumbnails

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/openkast/mediabrowser/cache"
	"github.com/openkast/mediabrowser/library"
	"github.com/openkast/mediabrowser/log"
	"github.com/openkast/mediabrowser/metrics"
	"github.com/openkast/mediabrowser/video"
)

const (
	thumbWidth  = 320
	thumbHeight = 320
	jpegQuality = 85
	fontName    = "DejaVuSans.ttf"
)

var (
	// ErrSourceMissing means the source path is not a regular file.
	ErrSourceMissing = errors.New("source file not found")
	// ErrCachedFailure means generation failed, now or on a previous
	// attempt, and the sentinel holds until the source mtime advances.
	ErrCachedFailure = errors.New("thumbnail generation failed")
)

type Generator struct {
	Store cache.Store

	fontOnce sync.Once
	fontFile string
}

func NewGenerator(store cache.Store) *Generator {
	return &Generator{Store: store}
}

// EnsureThumb returns the path of a fresh thumbnail for src. A cached
// file is fresh iff its mtime is at least the source's; a fresh
// zero-byte file is the failure sentinel and yields ErrCachedFailure
// without retrying.
func (g *Generator) EnsureThumb(ctx context.Context, src string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil || !srcInfo.Mode().IsRegular() {
		metrics.Metrics.ThumbnailRequestCount.WithLabelValues("missing").Inc()
		return "", ErrSourceMissing
	}

	dst := g.Store.ThumbFile(src)
	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
		if dstInfo.Size() > 0 {
			metrics.Metrics.ThumbnailRequestCount.WithLabelValues("hit").Inc()
			return dst, nil
		}
		metrics.Metrics.ThumbnailRequestCount.WithLabelValues("cached_failure").Inc()
		return "", ErrCachedFailure
	}

	var genErr error
	switch {
	case library.IsImage(src):
		genErr = g.generateImage(src, dst)
	case library.IsVideo(src):
		genErr = g.generateVideo(ctx, src, dst)
	default:
		genErr = fmt.Errorf("not a media file")
	}
	if genErr != nil {
		log.LogCtx(ctx, "thumbnail generation failed", "src", library.EncodeName(src), "err", genErr)
		if err := writeSentinel(dst); err != nil {
			log.LogCtx(ctx, "error writing thumbnail sentinel", "dst", dst, "err", err)
		}
		metrics.Metrics.ThumbnailRequestCount.WithLabelValues("failed").Inc()
		return "", ErrCachedFailure
	}
	metrics.Metrics.ThumbnailRequestCount.WithLabelValues("generated").Inc()
	return dst, nil
}

// generateImage decodes src with its orientation metadata applied,
// downscales it to fit the thumbnail bounds and writes a JPEG.
func (g *Generator) generateImage(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	thumb := imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)
	return writeAtomic(dst, func(tmp string) error {
		return imaging.Save(thumb, tmp, imaging.JPEGQuality(jpegQuality))
	})
}

// generateVideo has the transcoder pick a representative frame, scale
// it to the thumbnail width and stamp the duration in the top right
// corner. If the duration cannot be probed the overlay is skipped.
func (g *Generator) generateVideo(ctx context.Context, src, dst string) error {
	filters := []string{fmt.Sprintf("thumbnail,scale=%d:-1", thumbWidth)}
	if duration, err := video.Duration(ctx, src); err == nil {
		filters = append(filters, g.durationOverlay(duration))
	}

	return writeAtomic(dst, func(tmp string) error {
		var ffmpegErr bytes.Buffer
		err := ffmpeg.
			Input(src, ffmpeg.KwArgs{"loglevel": "error"}).
			Output(tmp, ffmpeg.KwArgs{
				"frames:v": "1",
				"vf":       strings.Join(filters, ","),
			}).
			OverWriteOutput().
			WithErrorOutput(&ffmpegErr).
			Run()
		if err != nil {
			return fmt.Errorf("ffmpeg failed [%s]: %w", ffmpegErr.String(), err)
		}
		return nil
	})
}

// durationOverlay renders H:MM:SS (or MM:SS under an hour) boxed in the
// top right corner. Colons are escaped for the drawtext filter.
func (g *Generator) durationOverlay(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, total%3600/60, total%60
	var text string
	if h > 0 {
		text = fmt.Sprintf("%d\\:%02d\\:%02d", h, m, s)
	} else {
		text = fmt.Sprintf("%02d\\:%02d", m, s)
	}
	overlay := fmt.Sprintf("drawtext=text='%s':x=w-tw-8:y=8"+
		":box=1:boxborderw=8:boxcolor=0x000000aa"+
		":fontsize=24:fontcolor=0xcccccc", text)
	if font := g.findFont(); font != "" {
		overlay += fmt.Sprintf(":fontfile='%s'", font)
	}
	return overlay
}

// findFont searches the standard font directories for a sans-serif
// font. The result is memoized, including the not-found case, so the
// directory walk happens at most once per process.
func (g *Generator) findFont() string {
	g.fontOnce.Do(func() {
		for _, dir := range fontSearchDirs() {
			_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if !d.IsDir() && d.Name() == fontName {
					g.fontFile = path
					return fs.SkipAll
				}
				return nil
			})
			if g.fontFile != "" {
				break
			}
		}
	})
	return g.fontFile
}

func fontSearchDirs() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".local/share/fonts"),
		"/usr/share/fonts",
		"/usr/local/share/fonts",
	}
}

// writeAtomic has write produce the file at a uniquely-named temp path
// in the destination directory, then renames it into place.
func writeAtomic(dst string, write func(tmp string) error) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+".jpg")
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// writeSentinel records a permanent failure as a zero-byte file at the
// thumbnail's location.
func writeSentinel(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, nil, 0644)
}
