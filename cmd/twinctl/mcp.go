package main

import (
	"fmt"
	"os"

	"ai-twin-be/internal/bootstrap"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the chat tool over MCP stdio (for desktop MCP clients)",
	Args:  cobra.NoArgs,
	RunE:  runMcp,
}

func runMcp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	// stdout carries the protocol
	cfg.App.LogToStderr = true

	c, err := bootstrap.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintln(os.Stderr, "Serving MCP chat tool on stdio")
	return c.McpServer.ServeStdio(cmd.Context(), os.Stdin, os.Stdout)
}
