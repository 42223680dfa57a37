package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tournamate/rosterd/pkg/client"
	"github.com/tournamate/rosterd/pkg/logger"
)

type options struct {
	server  string
	timeout time.Duration
	retries int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Inspect and repair a rosterd server",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", "http://localhost:8080", "rosterd base url")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per request timeout")
	flags.IntVar(&opts.retries, "retries", 2, "retries for idempotent requests")

	root.AddCommand(
		newPlayersCmd(opts),
		newTeamsCmd(opts),
		newReconcileCmd(opts),
		newHealthCmd(opts),
	)
	return root
}

func (o *options) client() (*client.Client, error) {
	return client.New(client.Config{
		BaseURL: o.server,
		Timeout: o.timeout,
		Retries: o.retries,
	})
}

// commandContext tags every request of one invocation with the same request id
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithRequestId(ctx, "rosterctl-"+uuid.New().String())
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newReconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild team rosters from the player records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			report, err := c.Reconcile(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			status, err := c.Health(commandContext(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
}
