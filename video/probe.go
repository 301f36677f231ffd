package video

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

const probeTimeout = 60 * time.Second

// StreamInfo is one video or audio stream of a source: its codec name
// (lowercased) and its index in the container.
type StreamInfo struct {
	Codec string
	Index int
}

// MediaInfo enumerates the usable streams of a source in probe order.
type MediaInfo struct {
	Ext   string
	Video []StreamInfo
	Audio []StreamInfo
}

type Prober interface {
	ProbeFile(ctx context.Context, src string) (*MediaInfo, error)
}

type Probe struct{}

// ProbeFile inspects src and enumerates its video and audio streams.
// Streams without a codec name are skipped. A nil MediaInfo with a nil
// error means the file has no usable streams; callers treat both nil
// info and probe errors as "not a media file".
func (p Probe) ProbeFile(ctx context.Context, src string) (*MediaInfo, error) {
	probeCtx, probeCancel := context.WithTimeout(ctx, probeTimeout)
	defer probeCancel()
	data, err := ffprobe.ProbeURL(probeCtx, src)
	if err != nil {
		return nil, fmt.Errorf("error probing: %w", err)
	}

	info := &MediaInfo{
		Ext: strings.ToLower(strings.TrimPrefix(filepath.Ext(src), ".")),
	}
	for _, s := range data.Streams {
		if s == nil || s.CodecName == "" {
			continue
		}
		stream := StreamInfo{Codec: strings.ToLower(s.CodecName), Index: s.Index}
		switch s.CodecType {
		case "video":
			info.Video = append(info.Video, stream)
		case "audio":
			info.Audio = append(info.Audio, stream)
		}
	}
	if len(info.Video) == 0 && len(info.Audio) == 0 {
		return nil, nil
	}
	return info, nil
}

// Duration returns the container duration of src in seconds.
func Duration(ctx context.Context, src string) (float64, error) {
	probeCtx, probeCancel := context.WithTimeout(ctx, probeTimeout)
	defer probeCancel()
	data, err := ffprobe.ProbeURL(probeCtx, src)
	if err != nil {
		return 0, fmt.Errorf("error probing: %w", err)
	}
	if data.Format == nil || data.Format.DurationSeconds <= 0 {
		return 0, fmt.Errorf("no duration in probe data")
	}
	return data.Format.DurationSeconds, nil
}
