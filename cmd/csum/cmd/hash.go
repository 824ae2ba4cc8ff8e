// Copyright © 2026 Csum Authors

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash <file> [file...]",
	Short: "Print the content digest of files",
	Long: `Print the content digest of files, without touching them.

The digest is the name the file would take when labeled.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := paramsToEngine(csumFlags)
		for _, pth := range args {
			rec, err := e.Hash(ctx, pth)
			if err != nil {
				wrapFatalln("hash "+pth, err)
				return
			}
			logStdOut("%s  %s\n", rec.Digest, pth)
		}
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
