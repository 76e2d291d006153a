package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speechnote/internal/processor"
)

func newTranscribeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe a recording into a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd, processor.Options{})
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			note, _ := cmd.Flags().GetString("note")
			file, _ := cmd.Flags().GetString("file")
			speakers, _ := cmd.Flags().GetInt("speakers")
			summarize, _ := cmd.Flags().GetBool("summarize")

			start := time.Now()
			res, err := a.proc.ProcessNote(ctx, processor.NoteRequest{
				Note:        note,
				AudioPath:   file,
				NumSpeakers: speakers,
				Summarize:   summarize,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, line := range res.Transcript.Lines() {
				fmt.Fprintln(out, line)
			}
			if res.Summary != "" {
				fmt.Fprintf(out, "\n%s\n", res.Summary)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s in %s\n", res.TranscriptPath, elapsed(start))
			return nil
		},
	}
	c.Flags().String("note", "", "note to file the recording under (required)")
	c.Flags().String("file", "", "audio file to transcribe (required)")
	c.Flags().Int("speakers", 0, "expected number of speakers, 0 uses the config default")
	c.Flags().Bool("summarize", false, "also summarize the transcript")
	_ = c.MarkFlagRequired("note")
	_ = c.MarkFlagRequired("file")
	return c
}
