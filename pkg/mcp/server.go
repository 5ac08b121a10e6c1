// Package mcp exposes the manager's operations as MCP tools over stdio so
// Copilot-compatible clients can manage their own chatmode and instruction
// files.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/modekit"
)

// ServerName identifies this server to MCP clients.
const ServerName = "modekit"

// Server bridges MCP clients to the Manager.
type Server struct {
	mcp    *mcp.Server
	mgr    *modekit.Manager
	logger *slog.Logger
}

// NewServer creates the MCP server and registers every tool.
func NewServer(mgr *modekit.Manager, version string, logger *slog.Logger) (*Server, error) {
	if mgr == nil {
		return nil, errors.New("manager is required")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := &Server{mgr: mgr, logger: logger}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil, // capabilities are inferred from registered tools
	)
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// Serve runs the server over stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	ctx = log.ContextWithLogger(ctx, s.logger)
	s.logger.Info("starting MCP server",
		"prompts_dir", s.mgr.PromptsDir(), "read_only", s.mgr.ReadOnly())

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", "error", err)
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_chatmodes",
		Description: "List the VS Code chatmode files in the prompts directory, with description and body preview for each.",
	}, s.listChatmodesHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_chatmode",
		Description: "Read a chatmode file: description, tools, and the full body.",
	}, s.getChatmodeHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_chatmode",
		Description: "Create a new chatmode file. Fails if a chatmode with the same name already exists.",
	}, s.createChatmodeHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_chatmode",
		Description: "Update an existing chatmode file. Only the provided fields change.",
	}, s.updateChatmodeHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_chatmode",
		Description: "Delete a chatmode file. A timestamped backup is written next to it first.",
	}, s.deleteChatmodeHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_chatmode_from_source",
		Description: "Re-fetch the chatmode from its recorded source_url and merge upstream changes in, keeping locally added tools.",
	}, s.updateChatmodeFromSourceHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_instructions",
		Description: "List the VS Code instruction files in the prompts directory, with description and body preview for each.",
	}, s.listInstructionsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_instruction",
		Description: "Read an instruction file: description and the full body.",
	}, s.getInstructionHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_instruction",
		Description: "Create a new instruction file. Fails if an instruction with the same name already exists.",
	}, s.createInstructionHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_instruction",
		Description: "Update an existing instruction file. Only the provided fields change.",
	}, s.updateInstructionHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_instruction",
		Description: "Delete an instruction file. A timestamped backup is written next to it first.",
	}, s.deleteInstructionHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_prompts_directory",
		Description: "Report the resolved VS Code prompts directory this server manages.",
	}, s.promptsDirectoryHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browse_mode_library",
		Description: "Browse the mode library for installable chatmodes and instructions, optionally filtered by search term and category.",
	}, s.browseLibraryHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "install_from_library",
		Description: "Install a chatmode or instruction from the mode library into the prompts directory.",
	}, s.installFromLibraryHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "refresh_library",
		Description: "Force a refresh of the cached mode library index.",
	}, s.refreshLibraryHandler)

	s.logger.Debug("MCP tools registered", "count", 15)
}
