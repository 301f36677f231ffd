/*
Package transcode owns the lifecycle of HLS transcode jobs: a keyed
registry of running transcoder subprocesses, the watcher that records
each job's outcome on disk, the reaper that kills idle jobs, and the
readiness waiter play requests block on.

One mutex guards the registry map and the mutable fields of job
records. Subprocess spawn happens inside the critical section so two
concurrent starts for the same key cannot race; artifact file I/O is
lock-free because each key has exactly one owner at a time.
*/
package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/openkast/mediabrowser/config"
	"github.com/openkast/mediabrowser/log"
	"github.com/openkast/mediabrowser/metrics"
	"github.com/openkast/mediabrowser/subprocess"
	"github.com/openkast/mediabrowser/video"
)

const (
	// IdleTimeout is how long a job survives without a liveness bump.
	IdleTimeout = 30 * time.Second
	// ReapInterval is the reaper's polling period.
	ReapInterval = 5 * time.Second
	// killWait bounds how long the reaper waits for a killed subprocess
	// to be collected.
	killWait = 5 * time.Second
)

// Job is the in-memory record of one running transcoder subprocess.
// The record lives until the reaper evicts it; the artifact directory
// outlives the record.
type Job struct {
	OutDir string

	cmd        *exec.Cmd
	lastAccess time.Time
	waited     bool
	done       chan struct{} // closed once the watcher has collected the exit
}

// CommandBuilder produces the transcoder invocation for a source,
// plus a loggable summary of the codec disposition. Tests inject fake
// commands through this hook.
type CommandBuilder func(src, outDir string, info *video.MediaInfo) (*exec.Cmd, string)

type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job

	buildCommand CommandBuilder
	now          func() time.Time
}

func NewRegistry(build CommandBuilder) *Registry {
	return &Registry{
		jobs:         make(map[string]*Job),
		buildCommand: build,
		now:          time.Now,
	}
}

// StartOrReuse returns the job for key, spawning a transcoder if none
// is registered. Reuse bumps the job's liveness. A fresh start clears
// any stale playlist left in an existing job directory, so a client
// that cached the old playlist cannot keep referencing segment names a
// new transcode has not produced yet.
//
// On spawn failure no record is stored; the incomplete marker stays on
// disk and a later start reuses the directory.
func (r *Registry) StartOrReuse(ctx context.Context, src, key, outDir string, info *video.MediaInfo) (*Job, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[key]; ok {
		job.lastAccess = r.now()
		metrics.Metrics.TranscodeJobsReused.Inc()
		return job, false, nil
	}

	if _, err := os.Stat(outDir); err == nil {
		if err := os.Remove(filepath.Join(outDir, config.PlaylistName)); err != nil && !os.IsNotExist(err) {
			return nil, false, err
		}
	} else if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, false, err
	}
	if err := touchMarker(outDir, MarkerIncomplete); err != nil {
		return nil, false, err
	}

	cmd, summary := r.buildCommand(src, outDir, info)
	if err := subprocess.LogOutputs(cmd, key); err != nil {
		return nil, false, err
	}
	if err := cmd.Start(); err != nil {
		return nil, false, fmt.Errorf("failed to start transcoder: %w", err)
	}
	log.LogCtx(ctx, summary, "key", key)

	job := &Job{
		OutDir:     outDir,
		cmd:        cmd,
		lastAccess: r.now(),
		done:       make(chan struct{}),
	}
	r.jobs[key] = job
	metrics.Metrics.TranscodeJobsStarted.Inc()
	metrics.Metrics.TranscodeJobsActive.Set(float64(len(r.jobs)))
	go r.watch(key, job)
	return job, true, nil
}

// watch blocks until the subprocess exits and records the outcome on
// disk. A signalled exit means the reaper killed the job, so the
// markers are left alone and a later request can restart it. Exit code
// 255 is reserved for host shutdown and is not an error of the input.
// Any other non-zero exit writes the error marker next to the
// incomplete one; the incomplete marker is deliberately left behind as
// a trail of the failed run, and requests only consult complete and
// error.
func (r *Registry) watch(key string, job *Job) {
	waitErr := job.cmd.Wait()
	close(job.done)

	r.mu.Lock()
	job.waited = true
	r.mu.Unlock()

	code := job.cmd.ProcessState.ExitCode()
	switch {
	case code == 0:
		log.LogNoRequestID("transcode complete", "key", key)
		err := os.Rename(
			filepath.Join(job.OutDir, MarkerIncomplete),
			filepath.Join(job.OutDir, MarkerComplete),
		)
		if err != nil {
			log.LogNoRequestID("error writing complete marker", "key", key, "err", err)
		}
	case code < 0:
		log.LogNoRequestID("transcoder killed", "key", key, "err", waitErr)
	case code == 255:
		log.LogNoRequestID("transcoder shut down", "key", key)
	default:
		log.LogNoRequestID("transcode failed", "key", key, "exit_code", code, "err", waitErr)
		if err := touchMarker(job.OutDir, MarkerError); err != nil {
			log.LogNoRequestID("error writing error marker", "key", key, "err", err)
		}
	}
}

// Bump refreshes the liveness of the job for key. Bumping an unknown or
// already collected job is a no-op; the reaper owns stale records.
func (r *Registry) Bump(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[key]; ok && !job.waited {
		job.lastAccess = r.now()
	}
}

// Reap kills and forgets every job that has not been bumped within
// IdleTimeout. On-disk artifacts are left in place: a later request
// finds the complete or error marker, or a lingering incomplete with no
// record, which StartOrReuse treats as a fresh start.
func (r *Registry) Reap() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for key, job := range r.jobs {
		if now.Sub(job.lastAccess) <= IdleTimeout {
			continue
		}
		if job.waited {
			log.LogNoRequestID("removing idle transcode job", "key", key)
		} else {
			log.LogNoRequestID("killing idle transcode job", "key", key)
			if err := job.cmd.Process.Kill(); err != nil {
				log.LogNoRequestID("error killing transcoder", "key", key, "err", err)
			}
			// The watcher owns the wait; it signals collection on the
			// done channel.
			select {
			case <-job.done:
			case <-time.After(killWait):
				log.LogNoRequestID("timed out waiting for killed transcoder", "key", key)
			}
			job.waited = true
		}
		delete(r.jobs, key)
		metrics.Metrics.TranscodeJobsReaped.Inc()
	}
	metrics.Metrics.TranscodeJobsActive.Set(float64(len(r.jobs)))
}

// RunReaper drives Reap on a fixed period until ctx is cancelled. Kill
// failures are logged inside Reap and never stop the loop.
func (r *Registry) RunReaper(ctx context.Context) error {
	ticker := time.NewTicker(ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Reap()
		}
	}
}
