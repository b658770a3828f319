package speech

import (
	"context"
	"fmt"
	"os/exec"
)

// processPlayback is an utterance rendered by an external program
type processPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func startProcess(ctx context.Context, name string, args ...string) (*processPlayback, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	p := &processPlayback{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

func (p *processPlayback) Wait() error {
	<-p.done
	if p.err != nil {
		return fmt.Errorf("%s failed: %w", p.cmd.Path, p.err)
	}
	return nil
}

func (p *processPlayback) Pause() error {
	return suspendProcess(p.cmd.Process)
}

func (p *processPlayback) Resume() error {
	return resumeProcess(p.cmd.Process)
}

func (p *processPlayback) Stop() {
	select {
	case <-p.done:
		return
	default:
	}
	// SIGKILL also ends a suspended process
	_ = p.cmd.Process.Kill()
}
