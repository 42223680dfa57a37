package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "Manage players",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all players",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				players, err := c.ListPlayers(commandContext(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), players)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one player",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				player, err := c.GetPlayer(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), player)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a player and remove it from its roster",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				if err := c.DeletePlayer(commandContext(cmd), args[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "player %s deleted\n", args[0])
				return err
			},
		},
	)
	return cmd
}
