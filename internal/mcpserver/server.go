package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeberg.org/snonux/wordwalk/internal"
)

const serverName = "wordwalk"

// Server serves one player over MCP
type Server struct {
	mcpServer *mcp.Server
	player    Player
}

// New creates a server with every player tool registered
func New(p Player) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: internal.Version}, nil)

	mcp.AddTool(mcpServer, commandTool("play", "Starts speaking from the current entry. Does nothing while already playing."), CommandHandler(p, p.Play))
	mcp.AddTool(mcpServer, commandTool("pause", "Pauses playback at the next checkpoint."), CommandHandler(p, ignoreResult(p.Pause)))
	mcp.AddTool(mcpServer, commandTool("resume", "Resumes paused playback."), CommandHandler(p, ignoreResult(p.Resume)))
	mcp.AddTool(mcpServer, commandTool("stop", "Stops playback and keeps the current position."), CommandHandler(p, ignoreResult(p.Stop)))
	mcp.AddTool(mcpServer, commandTool("restart", "Starts again from the first entry of the group."), CommandHandler(p, p.Restart))
	mcp.AddTool(mcpServer, commandTool("next", "Moves to the next entry."), CommandHandler(p, ignoreResult(p.SeekNext)))
	mcp.AddTool(mcpServer, commandTool("prev", "Moves to the previous entry."), CommandHandler(p, ignoreResult(p.SeekPrev)))
	mcp.AddTool(mcpServer, commandTool("status", "Reports the current entry and playback state."), CommandHandler(p, func() error { return nil }))
	mcp.AddTool(mcpServer, commandTool("set_group", "Switches to another group and stops at its first entry."), SetGroupHandler(p))
	mcp.AddTool(mcpServer, commandTool("set_rate", "Changes the speech rate and stops at the first entry."), SetRateHandler(p))
	mcp.AddTool(mcpServer, commandTool("set_mode", "Changes the drill mode and stops at the first entry."), SetModeHandler(p))
	mcp.AddTool(mcpServer, commandTool("list_groups", "Lists the catalog groups."), ListGroupsHandler(p))

	return &Server{mcpServer: mcpServer, player: p}
}

// Run serves requests on transport until the client disconnects or ctx is
// done. Playback is stopped on return.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	defer s.player.Stop()

	err := s.mcpServer.Run(ctx, transport)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeStdio serves requests on stdin and stdout
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
