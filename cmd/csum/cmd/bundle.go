// Copyright © 2026 Csum Authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// bundleCmd represents the bundle command
var bundleCmd = &cobra.Command{
	Use:   "bundle <file> [file...]",
	Short: "Combine files and their records into single containers",
	Long: `Combine files and their records into single container files.

A labeled pair, addressed by its sidecar record, is packed as-is and both files
are consumed. An unlabeled file is digested on the fly and packed without ever
writing a sidecar. Containers are left alone.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := paramsToEngine(csumFlags)
		for _, pth := range args {
			res, err := e.Bundle(ctx, pth)
			if err != nil {
				wrapFatalln("bundle "+pth, err)
				return
			}
			if res.Skipped {
				infoLogger.Printf("%s: already a container, skipped", pth)
				continue
			}
			logStdOut("%s -> %s\n", pth, res.ContainerPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}
