package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speechnote/internal/processor"
)

func newSummarizeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "summarize <note>",
		Short: "Summarize the saved transcript of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd, processor.Options{})
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			summary, err := a.proc.SummarizeNote(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	return c
}
