package transcode

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WaitFileReady polls until path exists and is non-empty, returning
// false if that does not happen within timeout. Play requests use it to
// block on the first playlist write of a fresh transcode.
func WaitFileReady(ctx context.Context, path string, timeout, interval time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check := func() error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return fmt.Errorf("%s is still empty", path)
		}
		return nil
	}
	err := backoff.Retry(check, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	return err == nil
}
