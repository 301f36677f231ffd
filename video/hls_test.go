package video

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// hasFlag reports whether args contains flag immediately followed by value.
func hasFlag(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestChooseStreamPrefersCopyableCodec(t *testing.T) {
	streams := []StreamInfo{
		{Codec: "mpeg4", Index: 0},
		{Codec: "h264", Index: 2},
	}
	got := chooseStream(streams, hlsVideoCopyCodecs)
	require.NotNil(t, got)
	require.Equal(t, 2, got.Index)
}

func TestChooseStreamFallsBackToFirst(t *testing.T) {
	streams := []StreamInfo{
		{Codec: "vp9", Index: 1},
		{Codec: "mpeg4", Index: 3},
	}
	got := chooseStream(streams, hlsVideoCopyCodecs)
	require.NotNil(t, got)
	require.Equal(t, 1, got.Index)
}

func TestChooseStreamEmpty(t *testing.T) {
	require.Nil(t, chooseStream(nil, hlsVideoCopyCodecs))
}

func TestHLSCommandCopiesCompatibleStreams(t *testing.T) {
	info := &MediaInfo{
		Ext:   ".mp4",
		Video: []StreamInfo{{Codec: "h264", Index: 0}},
		Audio: []StreamInfo{{Codec: "aac", Index: 1}},
	}
	cmd, summary := HLSCommand("/media/clip.mp4", "/tmp/out", info)

	require.Equal(t, "ffmpeg: copy video (h264), copy audio (aac)", summary)
	args := cmd.Args
	require.True(t, hasFlag(args, "-i", "/media/clip.mp4"))
	require.True(t, hasFlag(args, "-f", "hls"))
	require.True(t, hasFlag(args, "-hls_time", "5"))
	require.True(t, hasFlag(args, "-hls_list_size", "0"))
	require.True(t, hasFlag(args, "-hls_segment_filename", filepath.Join("/tmp/out", "seg%03d.ts")))
	require.True(t, hasFlag(args, "-c:v", "copy"))
	require.True(t, hasFlag(args, "-c:a", "copy"))
	require.True(t, hasFlag(args, "-map", "0:0"))
	require.True(t, hasFlag(args, "-map", "0:1"))
	require.Equal(t, filepath.Join("/tmp/out", "index.m3u8"), args[len(args)-1])
}

func TestHLSCommandReencodesIncompatibleStreams(t *testing.T) {
	info := &MediaInfo{
		Ext:   ".avi",
		Video: []StreamInfo{{Codec: "mpeg4", Index: 0}},
		Audio: []StreamInfo{{Codec: "ac3", Index: 1}},
	}
	cmd, summary := HLSCommand("/media/old.avi", "/tmp/out", info)

	require.Equal(t, "ffmpeg: re-encode video (mpeg4), re-encode audio (ac3)", summary)
	args := cmd.Args
	require.True(t, hasFlag(args, "-c:v", "libx264"))
	require.True(t, hasFlag(args, "-preset", "veryfast"))
	require.True(t, hasFlag(args, "-g", "48"))
	require.True(t, hasFlag(args, "-keyint_min", "48"))
	require.True(t, hasFlag(args, "-sc_threshold", "0"))
	require.True(t, hasFlag(args, "-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2"))
	require.True(t, hasFlag(args, "-c:a", "aac"))
	require.True(t, hasFlag(args, "-b:a", "128k"))
}

func TestHLSCommandAudioOnly(t *testing.T) {
	info := &MediaInfo{
		Ext:   ".mp3",
		Audio: []StreamInfo{{Codec: "mp3", Index: 0}},
	}
	cmd, summary := HLSCommand("/media/song.mp3", "/tmp/out", info)

	require.Equal(t, "ffmpeg: no video stream, copy audio (mp3)", summary)
	args := cmd.Args
	require.True(t, hasFlag(args, "-c:a", "copy"))
	require.True(t, hasFlag(args, "-map", "0:0"))
	require.False(t, hasFlag(args, "-c:v", "copy"))
	require.False(t, hasFlag(args, "-c:v", "libx264"))
}
