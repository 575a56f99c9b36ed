package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/assistant-bridge/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant-bridge",
		Short: "HTTP chat facade with model fallback.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "instruction file (env: CONFIG_FILE)")
	root.PersistentFlags().StringSlice("models", nil, "fallback chain, in order (env: MODELS)")

	root.AddCommand(newServeCommand(), newAskCommand())

	return root
}

// loadConfig: env → флаги поверх.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		cfg.ConfigFile = f.Value.String()
	}
	if cmd.Flags().Changed("models") {
		if models, err := cmd.Flags().GetStringSlice("models"); err == nil && len(models) > 0 {
			cfg.Models = models
		}
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}

	return cfg
}
