package commands

import (
	"errors"
	"fmt"
	"strings"

	"lexibot/internal/lookup"
	"lexibot/internal/render"

	"github.com/spf13/cobra"
)

func defineCmd(a *app) *cobra.Command {
	var useMock bool

	cmd := &cobra.Command{
		Use:   "define [word or phrase]",
		Short: "Look up a definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := lookup.New(a.definer, lookup.Options{
				MockDelay: a.cfg.MockDelay,
				Logger:    a.logger,
			})

			unsubscribe := m.Subscribe(func(s lookup.Snapshot) {
				if s.IsPending() {
					fmt.Fprintln(cmd.ErrOrStderr(), render.Snapshot(s))
				}
			})
			defer unsubscribe()

			if err := m.Submit(cmd.Context(), strings.Join(args, " "), useMock); err != nil {
				return errors.New(m.Snapshot().ErrorMessage())
			}

			snap, err := m.Wait(cmd.Context())
			if err != nil {
				m.Reset()
				return err
			}
			if snap.IsError() {
				return errors.New(snap.ErrorMessage())
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Snapshot(snap))
			return nil
		},
	}

	cmd.Flags().BoolVar(&useMock, "mock", false, "return sample data without calling the API")
	return cmd
}
