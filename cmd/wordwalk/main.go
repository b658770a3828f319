package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wordwalk/internal/app"
	"codeberg.org/snonux/wordwalk/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).RunPlayer(cmd.Context(), args)
	}

	groupsCmd := cli.CreateGroupsCommand()
	groupsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).ListGroups()
	}

	importCmd := cli.CreateImportCommand(flags)
	importCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).Import(cmd.Context(), args[0])
	}

	exportCmd := cli.CreateExportCommand(flags)
	exportCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).Export(cmd.Context(), args[0])
	}

	cacheCmd := cli.CreateCacheCommand(flags)
	cacheCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).Cache()
	}

	mcpCmd := cli.CreateMCPCommand()
	mcpCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).ServeMCP(cmd.Context())
	}

	modelsCmd := cli.CreateModelsCommand()
	modelsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).ListModels(cmd.Context())
	}

	voicesCmd := cli.CreateVoicesCommand()
	voicesCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.New(flags).ListVoices()
	}

	rootCmd.AddCommand(groupsCmd, importCmd, exportCmd, cacheCmd, mcpCmd, modelsCmd, voicesCmd)

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
