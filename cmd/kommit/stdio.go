package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/helixml/kommit/internal/log"
	"github.com/helixml/kommit/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This exposes the generate_commit_message tool to AI assistants.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	logger := log.Configure(cfg)
	slogger := logger.Slog()

	slogger.Info("starting MCP server", slog.String("version", version))

	client, err := newClient(cfg, slogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close kommit client", slog.Any("error", err))
		}
	}()

	mcpServer := mcp.NewServer(client, version, slogger)

	return mcpServer.ServeStdio()
}
