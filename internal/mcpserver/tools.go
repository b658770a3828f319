package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/playback"
)

// Player is the command surface exposed as tools
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

// NoInput is the input of tools without arguments
type NoInput struct{}

// GroupInput selects a group
type GroupInput struct {
	ID int `json:"id" jsonschema:"group identifier as listed by list_groups"`
}

// RateInput selects a speech rate
type RateInput struct {
	Rate string `json:"rate" jsonschema:"speech rate: slow, medium, fast or max"`
}

// ModeInput selects a drill mode
type ModeInput struct {
	Mode string `json:"mode" jsonschema:"drill mode: normal or revise"`
}

// Status is the session state returned by every command tool
type Status struct {
	State     string  `json:"state" jsonschema:"playback state (playing, paused, stopped, idle)"`
	GroupID   int     `json:"group_id" jsonschema:"current group identifier"`
	GroupName string  `json:"group_name" jsonschema:"current group name"`
	Position  int     `json:"position" jsonschema:"1-based position of the current entry, 0 for an empty group"`
	Total     int     `json:"total" jsonschema:"number of entries in the group"`
	Progress  float64 `json:"progress" jsonschema:"position in the group as a percentage"`
	Word      string  `json:"word,omitempty" jsonschema:"current word"`
	Synonym   string  `json:"synonym,omitempty" jsonschema:"synonym of the current word, hidden in revise mode until spoken"`
	Sentence  string  `json:"sentence,omitempty" jsonschema:"example sentence, hidden in revise mode"`
	Rate      string  `json:"rate" jsonschema:"speech rate label"`
	Mode      string  `json:"mode" jsonschema:"drill mode"`
}

// GroupInfo describes one catalog group
type GroupInfo struct {
	ID      int    `json:"id" jsonschema:"group identifier"`
	Name    string `json:"name" jsonschema:"group name"`
	Entries int    `json:"entries" jsonschema:"number of entries"`
}

// GroupList is the output of list_groups
type GroupList struct {
	Groups []GroupInfo `json:"groups" jsonschema:"catalog groups in order"`
}

// StatusOf converts a snapshot, leaving out fields hidden by revise mode
func StatusOf(s playback.Snapshot) Status {
	st := Status{
		State:     s.State(),
		GroupID:   s.GroupID,
		GroupName: s.GroupName,
		Total:     s.Total,
		Progress:  s.Progress(),
		Word:      s.Entry.Word,
		Rate:      string(s.Rate),
		Mode:      string(s.Mode),
	}
	if s.Total > 0 {
		st.Position = s.Index + 1
	}
	if s.SynonymVisible {
		st.Synonym = s.Entry.Synonym
	}
	if s.SentenceVisible {
		st.Sentence = s.Entry.Sentence
	}
	return st
}

func commandTool(name, description string) *mcp.Tool {
	return &mcp.Tool{Name: name, Description: description}
}

// CommandHandler runs cmd and reports the resulting status
func CommandHandler(p Player, cmd func() error) mcp.ToolHandlerFor[NoInput, Status] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, Status, error) {
		if err := cmd(); err != nil {
			return nil, Status{}, err
		}
		return nil, StatusOf(p.Snapshot()), nil
	}
}

// SetGroupHandler switches the group
func SetGroupHandler(p Player) mcp.ToolHandlerFor[GroupInput, Status] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GroupInput) (*mcp.CallToolResult, Status, error) {
		if err := p.SetGroup(input.ID); err != nil {
			return nil, Status{}, err
		}
		return nil, StatusOf(p.Snapshot()), nil
	}
}

// SetRateHandler switches the speech rate
func SetRateHandler(p Player) mcp.ToolHandlerFor[RateInput, Status] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RateInput) (*mcp.CallToolResult, Status, error) {
		if err := p.SetRate(input.Rate); err != nil {
			return nil, Status{}, err
		}
		return nil, StatusOf(p.Snapshot()), nil
	}
}

// SetModeHandler switches the drill mode
func SetModeHandler(p Player) mcp.ToolHandlerFor[ModeInput, Status] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ModeInput) (*mcp.CallToolResult, Status, error) {
		if err := p.SetMode(input.Mode); err != nil {
			return nil, Status{}, err
		}
		return nil, StatusOf(p.Snapshot()), nil
	}
}

// ListGroupsHandler lists the catalog groups
func ListGroupsHandler(p Player) mcp.ToolHandlerFor[NoInput, GroupList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, GroupList, error) {
		groups := p.Groups()
		list := GroupList{Groups: make([]GroupInfo, 0, len(groups))}
		for _, g := range groups {
			list.Groups = append(list.Groups, GroupInfo{ID: g.ID, Name: g.Name, Entries: g.Len()})
		}
		return nil, list, nil
	}
}

// ignoreResult adapts commands without an error result
func ignoreResult(fn func()) func() error {
	return func() error {
		fn()
		return nil
	}
}
