package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// Options configures the console front end
type Options struct {
	LineMode bool // read whole lines even when stdin is a terminal
	AutoPlay bool
}

// Console reads commands and renders session changes
type Console struct {
	player   Player
	in       io.Reader
	renderer *Renderer
	opts     Options
}

// New creates a console for p printing through r
func New(p Player, in io.Reader, r *Renderer, opts Options) *Console {
	return &Console{
		player:   p,
		in:       in,
		renderer: r,
		opts:     opts,
	}
}

// Run processes input until quit, end of input or ctx is done
func (c *Console) Run(ctx context.Context) error {
	if f, ok := c.in.(*os.File); ok && !c.opts.LineMode && term.IsTerminal(int(f.Fd())) {
		return c.runRaw(ctx, f)
	}
	return c.runLines(ctx)
}

func (c *Console) start() {
	c.renderer.Help(c.isLineInput())
	c.renderer.Render(c.player.Snapshot())
	if c.opts.AutoPlay {
		if err := c.player.Play(); err != nil {
			c.renderer.Error(err)
		}
	}
}

func (c *Console) isLineInput() bool {
	f, ok := c.in.(*os.File)
	return c.opts.LineMode || !ok || !term.IsTerminal(int(f.Fd()))
}

func (c *Console) runRaw(ctx context.Context, f *os.File) error {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	c.renderer.SetRaw(true)
	defer c.renderer.SetRaw(false)
	c.start()

	done := make(chan struct{})
	defer close(done)
	keys, errs := readKeys(f, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			cmd, ok := ParseKey(key)
			if !ok {
				continue
			}
			if c.handle(cmd) {
				return nil
			}
		}
	}
}

// readKeys reads r one byte at a time until a read fails or done is closed.
// keys is closed when the reader goroutine exits.
func readKeys(r io.Reader, done <-chan struct{}) (<-chan byte, <-chan error) {
	keys := make(chan byte)
	errs := make(chan error, 1)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			if _, err := r.Read(buf); err != nil {
				errs <- err
				return
			}
			select {
			case keys <- buf[0]:
			case <-done:
				return
			}
		}
	}()
	return keys, errs
}

func (c *Console) runLines(ctx context.Context) error {
	c.start()

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case line := <-lines:
			cmd, err := ParseLine(line)
			if err != nil {
				c.renderer.Error(err)
				continue
			}
			if c.handle(cmd) {
				return nil
			}
		}
	}
}

// handle runs one command and reports whether the console should quit
func (c *Console) handle(cmd Command) bool {
	switch cmd.Action {
	case ActionQuit:
		c.player.Stop()
		return true
	case ActionHelp:
		c.renderer.Help(c.isLineInput())
	case ActionStatus:
		c.renderer.Groups(c.player.Groups(), c.player.Snapshot().GroupID)
		c.renderer.Message("%s", c.renderer.Format(c.player.Snapshot()))
	default:
		if err := Apply(c.player, cmd); err != nil {
			c.renderer.Error(err)
		}
	}
	return false
}
