package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"lexibot/internal/apiclient"
	"lexibot/internal/config"
	"lexibot/internal/lookup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	api     *apiclient.Client
	definer lookup.Definer
	session *sessionFile
	cfg     *config.APIConfig
	logger  *zap.Logger
}

// Execute runs the CLI until it finishes or is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		home    string
		apiURL  string
		verbose bool
		a       = &app{}
	)

	root := &cobra.Command{
		Use:          "lexictl",
		Short:        "AI dictionary in your terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".lexibot")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := config.LoadAPI()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.BaseURL = apiURL
			}
			a.cfg = cfg

			a.logger = zap.NewNop()
			if verbose {
				if a.logger, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}

			a.session = newSessionFile(filepath.Join(home, "session.json"), cmd.ErrOrStderr())
			a.api = apiclient.New(apiclient.Config{
				BaseURL:        cfg.BaseURL,
				Timeout:        cfg.Timeout,
				Tokens:         a.session,
				OnUnauthorized: a.session,
				Logger:         a.logger,
			})
			a.definer = a.api
			if cfg.Contract == config.ContractV1 {
				a.definer = apiclient.NewTermDefiner(a.api)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.lexibot)")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $API_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		defineCmd(a),
		jokeCmd(a),
		captionCmd(a),
		healthCmd(a),
		signinCmd(a),
		signoutCmd(a),
		whoamiCmd(a),
	)
	return root
}
