// Copyright © 2026 Csum Authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label <file> [file...]",
	Short: "Rename files to their content digest",
	Long: `Rename files to their content digest, keeping the extension.

A sidecar record is written next to the renamed file, remembering the original
name so the file can be restored later. Files already carrying a record or
container extension are left alone.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := paramsToEngine(csumFlags)
		for _, pth := range args {
			res, err := e.Label(ctx, pth)
			if err != nil {
				wrapFatalln("label "+pth, err)
				return
			}
			if res.Skipped {
				infoLogger.Printf("%s: already managed, skipped", pth)
				continue
			}
			logStdOut("%s -> %s\n", pth, res.Record.LabeledPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
