package subprocess

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"

	"github.com/openkast/mediabrowser/log"
)

func streamOutput(src io.Reader, name, stream string) {
	s := bufio.NewScanner(src)
	for s.Scan() {
		log.LogNoRequestID("transcoder output", "job", name, "stream", stream, "line", s.Text())
	}
	if err := s.Err(); err != nil {
		log.LogNoRequestID("streamOutput read error", "job", name, "stream", stream, "err", err)
	}
}

// LogOutputs starts goroutines that stream cmd's stdout and stderr into
// the server log, one line per entry, tagged with name. Must be called
// before the command is started.
func LogOutputs(cmd *exec.Cmd, name string) error {
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	go streamOutput(stderrPipe, name, "stderr")
	go streamOutput(stdoutPipe, name, "stdout")
	return nil
}
