package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTeamsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team"},
		Short:   "Manage teams",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all teams with their rosters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				teams, err := c.ListTeams(commandContext(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), teams)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one team with its roster",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				team, err := c.GetTeam(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), team)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a team and unassign its players",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				if err := c.DeleteTeam(commandContext(cmd), args[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "team %s deleted\n", args[0])
				return err
			},
		},
	)
	return cmd
}
