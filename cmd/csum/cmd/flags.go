// Copyright © 2026 Csum Authors

package cmd

import (
	"github.com/csum-io/csum/pkg/dlogger"
	"github.com/csum-io/csum/pkg/engine"
	"github.com/csum-io/csum/pkg/fingerprint"
	"github.com/go-openapi/runtime/flagext"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		digest     string
		bufferSize flagext.ByteSize
		logLevel   string
	}
	verify struct {
		onlyMismatches bool
		quarantine     bool
	}
}

var csumFlags = flagsT{}

func addDigestFlag(cmd *cobra.Command) string {
	digest := "digest"
	cmd.PersistentFlags().StringVar(&csumFlags.root.digest, digest, "",
		"The digest algorithm giving files their content-derived names (md5 or blake2b)")
	return digest
}

func addBufferSizeFlag(cmd *cobra.Command) string {
	bufferSize := "buffer-size"
	cmd.PersistentFlags().Var(&csumFlags.root.bufferSize, bufferSize,
		"The buffer size used when streaming file content (default 1MiB)")
	return bufferSize
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&csumFlags.root.logLevel, loglevel, "",
		"The logging level (info, debug or none)")
	return loglevel
}

func addOnlyMismatchesFlag(cmd *cobra.Command) string {
	onlyMismatches := "only-mismatches"
	cmd.Flags().BoolVarP(&csumFlags.verify.onlyMismatches, onlyMismatches, "o", false,
		"Only report files whose recomputed digest disagrees with the recorded one")
	return onlyMismatches
}

func addQuarantineFlag(cmd *cobra.Command) string {
	quarantine := "quarantine"
	cmd.Flags().BoolVarP(&csumFlags.verify.quarantine, quarantine, "s", false,
		"Relocate mismatching files into a digest-named quarantine directory next to the input")
	return quarantine
}

// paramsToEngine builds the lifecycle engine from the effective
// parameters, config file values having been folded into the flags.
func paramsToEngine(flags flagsT, opts ...engine.Option) *engine.Engine {
	maker := fingerprint.New(
		fingerprint.Alg(fingerprint.Algorithm(flags.root.digest)),
		fingerprint.BufferSize(int64(flags.root.bufferSize)),
	)
	opts = append([]engine.Option{
		engine.Hasher(maker),
		engine.Logger(dlogger.MustGetLogger(flags.root.logLevel)),
	}, opts...)
	return engine.New(opts...)
}
