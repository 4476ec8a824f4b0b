package commands

import (
	"errors"
	"fmt"
	"strings"

	"lexibot/internal/apiclient"

	"github.com/spf13/cobra"
)

func jokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "joke [prompt]",
		Short: "Generate a joke",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			joke, err := a.api.GenerateJoke(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return errors.New(apiclient.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), joke.Joke)
			return nil
		},
	}
}

func captionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "caption [description]",
		Short: "Generate a caption",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caption, err := a.api.GenerateCaption(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return errors.New(apiclient.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), caption.Caption)
			return nil
		},
	}
}

func healthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := a.api.HealthCheck(cmd.Context())
			if err != nil {
				return fmt.Errorf("API unavailable: %s", apiclient.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", health.Service, health.Status)
			return nil
		},
	}
}
