package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "bookreview",
		Short:        "Browse, add and review books",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.out)

	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8080", "API base URL")
	flags.String("session", defaultSessionPath(), "file the signed-in session is kept in")
	flags.String("log-level", "warn", "debug | info | warn | error")

	// BOOKREVIEW_SERVER, BOOKREVIEW_SESSION and BOOKREVIEW_LOG_LEVEL override the defaults
	a.v.SetEnvPrefix("BOOKREVIEW")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("server", flags.Lookup("server"))
	_ = a.v.BindPFlag("session", flags.Lookup("session"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newBooksCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newReviewCmd(a),
		newProfileCmd(a),
		newPageCmd(a),
	)
	return rootCmd
}
