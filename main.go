// Package main provides the entry point for the docbuilder server and CLI.
package main

import (
	"context"
	"embed"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

//go:embed static
var staticFiles embed.FS

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docbuilder",
		Short: "Document template editor",
		Long: `docbuilder serves the template editor and works with templates from the shell.

Templates are plain text with {{champ}} placeholders. The server detects
them as you type, renders a live preview and autosaves drafts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newScanCmd(), newPreviewCmd(), newPushCmd())
	return cmd
}
