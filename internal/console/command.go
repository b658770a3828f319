package console

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/playback"
)

// Player is the command surface the console drives
type Player interface {
	Play() error
	Pause()
	Resume()
	Stop()
	Restart() error
	SeekNext()
	SeekPrev()
	SetGroup(id int) error
	SetRate(label string) error
	SetMode(mode string) error
	Snapshot() playback.Snapshot
	Groups() []catalog.Group
}

// Action identifies a console command
type Action int

const (
	ActionToggle Action = iota
	ActionPlay
	ActionPause
	ActionResume
	ActionStop
	ActionRestart
	ActionNext
	ActionPrev
	ActionNextGroup
	ActionGroup
	ActionRate
	ActionToggleMode
	ActionMode
	ActionStatus
	ActionHelp
	ActionQuit
)

// Command is a parsed key press or input line
type Command struct {
	Action Action
	Arg    string
}

var keyCommands = map[byte]Command{
	' ': {Action: ActionToggle},
	's': {Action: ActionStop},
	'r': {Action: ActionRestart},
	'n': {Action: ActionNext},
	'p': {Action: ActionPrev},
	'g': {Action: ActionNextGroup},
	'1': {Action: ActionRate, Arg: string(playback.RateSlow)},
	'2': {Action: ActionRate, Arg: string(playback.RateMedium)},
	'3': {Action: ActionRate, Arg: string(playback.RateFast)},
	'4': {Action: ActionRate, Arg: string(playback.RateMax)},
	'm': {Action: ActionToggleMode},
	'i': {Action: ActionStatus},
	'h': {Action: ActionHelp},
	'?': {Action: ActionHelp},
	'q': {Action: ActionQuit},
	3:   {Action: ActionQuit}, // Ctrl-C in raw mode
}

// ParseKey maps a single key press to a command
func ParseKey(b byte) (Command, bool) {
	cmd, ok := keyCommands[b]
	return cmd, ok
}

var lineCommands = map[string]Action{
	"":         ActionToggle,
	"toggle":   ActionToggle,
	"play":     ActionPlay,
	"pause":    ActionPause,
	"resume":   ActionResume,
	"stop":     ActionStop,
	"restart":  ActionRestart,
	"next":     ActionNext,
	"n":        ActionNext,
	"prev":     ActionPrev,
	"previous": ActionPrev,
	"p":        ActionPrev,
	"group":    ActionGroup,
	"rate":     ActionRate,
	"mode":     ActionMode,
	"status":   ActionStatus,
	"help":     ActionHelp,
	"quit":     ActionQuit,
	"exit":     ActionQuit,
	"q":        ActionQuit,
}

// ParseLine parses a typed command such as "next", "group 2" or "rate fast"
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))

	name, arg := "", ""
	if len(fields) > 0 {
		name = fields[0]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	if len(fields) > 2 {
		return Command{}, fmt.Errorf("too many arguments: %s", line)
	}

	action, ok := lineCommands[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command: %s", name)
	}

	switch action {
	case ActionGroup:
		if arg == "" {
			action = ActionNextGroup
		}
	case ActionRate:
		if arg == "" {
			return Command{}, fmt.Errorf("rate needs one of slow, medium, fast, max")
		}
	case ActionMode:
		if arg == "" {
			action = ActionToggleMode
		}
	default:
		if arg != "" {
			return Command{}, fmt.Errorf("%s takes no argument", name)
		}
	}

	return Command{Action: action, Arg: arg}, nil
}

// Apply runs cmd against p. ActionQuit, ActionStatus and ActionHelp are
// handled by the caller and do nothing here.
func Apply(p Player, cmd Command) error {
	switch cmd.Action {
	case ActionToggle:
		s := p.Snapshot()
		switch {
		case s.Paused:
			p.Resume()
		case s.Playing:
			p.Pause()
		default:
			return p.Play()
		}
	case ActionPlay:
		return p.Play()
	case ActionPause:
		p.Pause()
	case ActionResume:
		p.Resume()
	case ActionStop:
		p.Stop()
	case ActionRestart:
		return p.Restart()
	case ActionNext:
		p.SeekNext()
	case ActionPrev:
		p.SeekPrev()
	case ActionNextGroup:
		return p.SetGroup(nextGroup(p.Groups(), p.Snapshot().GroupID))
	case ActionGroup:
		id, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return fmt.Errorf("invalid group id: %s", cmd.Arg)
		}
		return p.SetGroup(id)
	case ActionRate:
		return p.SetRate(cmd.Arg)
	case ActionToggleMode:
		if p.Snapshot().Mode == playback.ModeRevise {
			return p.SetMode(string(playback.ModeNormal))
		}
		return p.SetMode(string(playback.ModeRevise))
	case ActionMode:
		return p.SetMode(cmd.Arg)
	}
	return nil
}

// nextGroup returns the id following current, wrapping around
func nextGroup(groups []catalog.Group, current int) int {
	for i, g := range groups {
		if g.ID == current {
			return groups[(i+1)%len(groups)].ID
		}
	}
	if len(groups) > 0 {
		return groups[0].ID
	}
	return current
}
