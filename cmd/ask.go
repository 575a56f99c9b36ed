package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ask <message>",
		Short:   "Run a single chat turn and print the reply.",
		Args:    cobra.MinimumNArgs(1),
		Example: `assistant-bridge ask "hello there"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return fmt.Errorf("please supply a message")
			}

			a, err := buildApp(cmd.Context(), loadConfig(cmd), false)
			if err != nil {
				return err
			}
			defer a.Close()

			reply := a.factory.Chat(cmd.Context(), message)
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
