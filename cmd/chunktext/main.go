// Command chunktext encodes, decodes and stores chunked UTF-16 texts.
package main

import (
	"fmt"
	"os"

	"github.com/oy3o/chunktext"
	"github.com/oy3o/chunktext/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	codec  *chunktext.TextCodec
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chunktext",
	Short: "Chunked UTF-16 text codec",
	Long: `chunktext converts UTF-8 text to and from the chunked UTF-16 wire format.

Texts shorter than the inline threshold are written as one block; longer texts
are split into fixed-size chunks so they can be decoded into pooled arrays.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if logger, err = cfg.BuildLogger(verbose); err != nil {
			return err
		}
		if codec, err = cfg.NewCodec(); err != nil {
			return err
		}
		logger.Debug("configured",
			zap.Int("chunk_size", codec.ChunkSize()),
			zap.Int("inline_threshold", codec.InlineThreshold()),
			zap.String("store", cfg.Store.Dir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(encodeCmd, decodeCmd, inspectCmd, putCmd, getCmd, deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
