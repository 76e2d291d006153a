package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speechnote/internal/export"
)

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export <note>",
		Short: "Write the transcript and summary of a note as txt or docx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newLocalApp(cmd)
			if err != nil {
				return err
			}
			note := args[0]
			format, _ := cmd.Flags().GetString("format")

			transcript, err := a.files.LoadTranscript(note)
			if err != nil {
				return err
			}
			summary, err := a.files.LoadSummary(note)
			if err != nil {
				return err
			}

			var written []string
			switch format {
			case "txt":
				path, err := a.files.FilePath(note, note+"_transcript.txt")
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(export.TranscriptText(transcript)), 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				written = append(written, path)
			case "docx":
				path, err := a.files.FilePath(note, note+"_transcript.docx")
				if err != nil {
					return err
				}
				if err := export.TranscriptDocx(note, transcript, path); err != nil {
					return err
				}
				written = append(written, path)

				if summary != "" {
					path, err := a.files.FilePath(note, note+"_summary.docx")
					if err != nil {
						return err
					}
					if err := export.SummaryDocx(note, summary, path); err != nil {
						return err
					}
					written = append(written, path)
				}
			default:
				return fmt.Errorf("unknown format %q, want txt or docx", format)
			}

			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	c.Flags().String("format", "txt", "output format: txt or docx")
	return c
}
