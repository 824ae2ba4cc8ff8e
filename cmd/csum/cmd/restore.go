// Copyright © 2026 Csum Authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <file.record|file.pack> [file...]",
	Short: "Return files to their original names",
	Long: `Return files to their original names.

A sidecar record input renames the labeled file back and drops the record. A
container input unpacks the payload, validates its digest against the packed
record, then takes the original name and drops the container.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := paramsToEngine(csumFlags)
		for _, pth := range args {
			res, err := e.Restore(ctx, pth)
			if err != nil {
				wrapFatalln("restore "+pth, err)
				return
			}
			logStdOut("%s -> %s\n", pth, res.Record.OriginalPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
