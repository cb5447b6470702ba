package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/tabstate"
)

func newTabCmd(a *app) *cobra.Command {
	tabCmd := &cobra.Command{
		Use:   "tab",
		Short: "Remember the last viewed tab of a page",
		Long:  `Tabs are stored per page id in ADMIN_STATE_FILE.`,
	}

	var def string
	getCmd := &cobra.Command{
		Use:   "get <page>",
		Short: "Print the remembered tab of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := tabstate.Open(a.cfg.StateFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Get(args[0], def))
			return nil
		},
	}
	getCmd.Flags().StringVar(&def, "default", "", "Tab to print when none is remembered")

	setCmd := &cobra.Command{
		Use:   "set <page> <tab>",
		Short: "Remember the tab of a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := tabstate.Open(a.cfg.StateFile)
			if err != nil {
				return err
			}
			return store.Set(args[0], args[1])
		},
	}

	tabCmd.AddCommand(getCmd)
	tabCmd.AddCommand(setCmd)
	return tabCmd
}
