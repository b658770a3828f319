//go:build windows

package speech

import (
	"errors"
	"os"
)

var errSuspendUnsupported = errors.New("pausing a running player is not supported on windows")

func suspendProcess(p *os.Process) error {
	return errSuspendUnsupported
}

func resumeProcess(p *os.Process) error {
	return errSuspendUnsupported
}
