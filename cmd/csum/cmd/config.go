package cmd

import (
	"github.com/go-openapi/runtime/flagext"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Digest     string `json:"digest" yaml:"digest"`           // Digest algorithm giving files their names
	BufferSize int64  `json:"buffer_size" yaml:"buffer_size"` // Buffer size when streaming content
	LogLevel   string `json:"loglevel" yaml:"loglevel"`       // Logging level
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setCsumParams folds config file values into flags the user did not set.
func (c *CLIConfig) setCsumParams(flags *flagsT) {
	if flags.root.digest == "" {
		flags.root.digest = c.Digest
	}
	if int64(flags.root.bufferSize) == 0 && c.BufferSize > 0 {
		flags.root.bufferSize = flagext.ByteSize(c.BufferSize)
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
}
