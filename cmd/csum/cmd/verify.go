// Copyright © 2026 Csum Authors

package cmd

import (
	"context"

	"github.com/csum-io/csum/pkg/engine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file.record|file.pack> [file...]",
	Short: "Check files against their recorded digests",
	Long: `Check files against their recorded digests.

Every input is checked even when an earlier one disagrees; the exit status is
non-zero when any digest mismatched. With quarantine enabled, mismatching
files are relocated into a digest-named directory next to the input.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := paramsToEngine(csumFlags, engine.Quarantine(csumFlags.verify.quarantine))
		mismatches := 0
		for _, pth := range args {
			res, err := e.Verify(ctx, pth)
			if err != nil {
				wrapFatalln("verify "+pth, err)
				return
			}
			if res.Match {
				if !csumFlags.verify.onlyMismatches {
					logStdOut("%s: the digest matches\n", pth)
				}
				continue
			}
			mismatches++
			color.Red("%s: the digest does not match (recorded %s, computed %s)",
				pth, res.Record.Digest, res.ActualDigest)
			if res.QuarantineDir != "" {
				infoLogger.Printf("%s: quarantined under %s", pth, res.QuarantineDir)
			}
		}
		if mismatches > 0 {
			wrapFatalWithCodef(1, "%d of %d files failed verification", mismatches, len(args))
			return
		}
	},
}

func init() {
	addOnlyMismatchesFlag(verifyCmd)
	addQuarantineFlag(verifyCmd)
	rootCmd.AddCommand(verifyCmd)
}
