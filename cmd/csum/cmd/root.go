// Copyright © 2026 Csum Authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/csum-io/csum/pkg/dlogger"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "csum",
	Short: "Csum manages files by their content digest",
	Long: `Csum manages files by their content digest.

A file is labeled by renaming it to the hex digest of its content, keeping its
extension, with a sidecar record remembering the original name. The pair can be
verified against the recorded digest, bundled into a single container file, and
restored back to the original name at any point.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	addDigestFlag(rootCmd)
	addBufferSizeFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("digest", "md5")
	viper.SetDefault("buffer_size", units.MiB)
	viper.SetDefault("loglevel", dlogger.LogLevelNone)
	if os.Getenv("CSUM_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("CSUM_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.csum")
		viper.AddConfigPath("/etc/csum")
		viper.SetConfigName("csum")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("load configuration", err)
		return
	}
	config.setCsumParams(&csumFlags)
}
