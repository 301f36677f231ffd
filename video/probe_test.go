package video

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireTranscoder(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

func synthesizeVideo(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=10",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=2",
		"-pix_fmt", "yuv420p", "-shortest", src,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not synthesize test video: %s: %s", err, out)
	}
	return src
}

func TestProbeFileEnumeratesStreams(t *testing.T) {
	requireTranscoder(t)
	src := synthesizeVideo(t)

	info, err := Probe{}.ProbeFile(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "mp4", info.Ext)
	require.NotEmpty(t, info.Video)
	require.NotEmpty(t, info.Audio)
	require.Equal(t, "aac", info.Audio[0].Codec)
}

func TestProbeFileMissingSource(t *testing.T) {
	requireTranscoder(t)
	_, err := Probe{}.ProbeFile(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
	require.Error(t, err)
}

func TestProbeFileNonMedia(t *testing.T) {
	requireTranscoder(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("plain text"), 0644))

	info, err := Probe{}.ProbeFile(context.Background(), src)
	if err == nil {
		require.Nil(t, info)
	}
}

func TestDuration(t *testing.T) {
	requireTranscoder(t)
	src := synthesizeVideo(t)

	seconds, err := Duration(context.Background(), src)
	require.NoError(t, err)
	require.InDelta(t, 2.0, seconds, 0.5)
}
