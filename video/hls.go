package video

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/openkast/mediabrowser/config"
)

// Streams already in these codecs go into the HLS output untouched;
// everything else is re-encoded.
var (
	hlsVideoCopyCodecs = map[string]bool{"h264": true, "avc1": true}
	hlsAudioCopyCodecs = map[string]bool{"aac": true, "mp3": true}
)

// chooseStream picks the first stream whose codec can be copied, else
// the first stream, else nil. Probe order is stable for a source, so
// the choice is deterministic.
func chooseStream(streams []StreamInfo, copyable map[string]bool) *StreamInfo {
	for i := range streams {
		if copyable[streams[i].Codec] {
			return &streams[i]
		}
	}
	if len(streams) > 0 {
		return &streams[0]
	}
	return nil
}

// HLSCommand builds the transcoder invocation that produces an HLS
// rendition of src into outDir: 5-second segments named seg000.ts,
// seg001.ts, ... under an unbounded index.m3u8 playlist. The returned
// summary describes the codec disposition for the log. The caller owns
// starting, killing and waiting on the command.
func HLSCommand(src, outDir string, info *MediaInfo) (*exec.Cmd, string) {
	videoStream := chooseStream(info.Video, hlsVideoCopyCodecs)
	audioStream := chooseStream(info.Audio, hlsAudioCopyCodecs)

	outputArgs := ffmpeg.KwArgs{
		"f":                    "hls",
		"hls_time":             "5",
		"hls_list_size":        "0",
		"hls_segment_filename": filepath.Join(outDir, config.SegmentPattern),
	}

	var maps []string
	summary := make([]string, 0, 2)

	if videoStream != nil {
		maps = append(maps, fmt.Sprintf("0:%d", videoStream.Index))
		if hlsVideoCopyCodecs[videoStream.Codec] {
			summary = append(summary, fmt.Sprintf("copy video (%s)", videoStream.Codec))
			outputArgs["c:v"] = "copy"
		} else {
			summary = append(summary, fmt.Sprintf("re-encode video (%s)", videoStream.Codec))
			// libx264 requires even dimensions. The fixed GOP with scene
			// cut detection off keeps segment boundaries on keyframes.
			outputArgs["vf"] = "scale=trunc(iw/2)*2:trunc(ih/2)*2"
			outputArgs["c:v"] = "libx264"
			outputArgs["preset"] = "veryfast"
			outputArgs["g"] = "48"
			outputArgs["keyint_min"] = "48"
			outputArgs["sc_threshold"] = "0"
		}
	} else {
		summary = append(summary, "no video stream")
	}

	if audioStream != nil {
		maps = append(maps, fmt.Sprintf("0:%d", audioStream.Index))
		if hlsAudioCopyCodecs[audioStream.Codec] {
			summary = append(summary, fmt.Sprintf("copy audio (%s)", audioStream.Codec))
			outputArgs["c:a"] = "copy"
		} else {
			summary = append(summary, fmt.Sprintf("re-encode audio (%s)", audioStream.Codec))
			outputArgs["c:a"] = "aac"
			outputArgs["b:a"] = "128k"
		}
	} else {
		summary = append(summary, "no audio")
	}

	if len(maps) > 0 {
		outputArgs["map"] = maps
	}

	cmd := ffmpeg.
		Input(src, ffmpeg.KwArgs{"loglevel": "error"}).
		Output(filepath.Join(outDir, config.PlaylistName), outputArgs).
		OverWriteOutput().
		Compile()

	return cmd, "ffmpeg: " + strings.Join(summary, ", ")
}
