package transcode

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitFileReadyExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.m3u8")
	require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\n"), 0644))

	require.True(t, WaitFileReady(context.Background(), path, time.Second, 10*time.Millisecond))
}

func TestWaitFileReadyLateWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.m3u8")
	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(path, []byte("#EXTM3U\n"), 0644)
	}()

	require.True(t, WaitFileReady(context.Background(), path, 3*time.Second, 10*time.Millisecond))
}

func TestWaitFileReadyTimesOutOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.m3u8")
	start := time.Now()
	require.False(t, WaitFileReady(context.Background(), path, 150*time.Millisecond, 10*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestWaitFileReadyTreatsEmptyFileAsNotReady(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.m3u8")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.False(t, WaitFileReady(context.Background(), path, 150*time.Millisecond, 10*time.Millisecond))
}

func TestWaitFileReadyHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "never.m3u8")
	require.False(t, WaitFileReady(ctx, path, 5*time.Second, 10*time.Millisecond))
}

func TestMarkers(t *testing.T) {
	dir := t.TempDir()
	require.False(t, HasMarker(dir, MarkerIncomplete))
	require.NoError(t, touchMarker(dir, MarkerIncomplete))
	require.True(t, HasMarker(dir, MarkerIncomplete))
}
