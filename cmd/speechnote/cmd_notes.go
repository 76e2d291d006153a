package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List or create notes",
	}
	cmd.AddCommand(newNotesListCmd())
	cmd.AddCommand(newNotesCreateCmd())
	return cmd
}

func newNotesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newLocalApp(cmd)
			if err != nil {
				return err
			}
			notes, err := a.files.ListNotes()
			if err != nil {
				return err
			}
			for _, n := range notes {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newNotesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newLocalApp(cmd)
			if err != nil {
				return err
			}
			return a.files.CreateNote(args[0])
		},
	}
}
