package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// playerCommand is an external audio player and the arguments placed before
// the file name
type playerCommand struct {
	name string
	args []string
}

// linuxPlayers in order of preference; mpg123 first since it handles MP3
// files best
var linuxPlayers = []playerCommand{
	{name: "mpg123", args: []string{"-q"}},
	{name: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{name: "play", args: []string{"-q"}}, // SoX
	{name: "paplay"},
	{name: "aplay", args: []string{"-q"}},
}

// ExecSink plays audio files through a platform audio player
type ExecSink struct {
	lookPath func(string) (string, error)
	goos     string
}

// NewExecSink creates a sink that uses the first installed audio player
func NewExecSink() *ExecSink {
	return &ExecSink{
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
}

// Play starts playing file
func (s *ExecSink) Play(ctx context.Context, file string) (Playback, error) {
	player, err := s.player()
	if err != nil {
		return nil, err
	}
	args := append(append([]string{}, player.args...), file)
	return startProcess(ctx, player.name, args...)
}

func (s *ExecSink) player() (playerCommand, error) {
	switch s.goos {
	case "darwin":
		return playerCommand{name: "afplay"}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, p := range linuxPlayers {
			if _, err := s.lookPath(p.name); err == nil {
				return p, nil
			}
		}
		return playerCommand{}, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return playerCommand{name: "cmd", args: []string{"/c", "start", "/min"}}, nil
	default:
		return playerCommand{}, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

// Name returns the sink name
func (s *ExecSink) Name() string {
	if p, err := s.player(); err == nil {
		return p.name
	}
	return "exec"
}

// IsAvailable checks that an audio player is installed
func (s *ExecSink) IsAvailable() error {
	_, err := s.player()
	return err
}
