package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/press"
	"github.com/iamNilotpal/press/config"
	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/pkg/errors"
	"github.com/iamNilotpal/press/pkg/logger"
)

var (
	flagConfig    string
	flagAlgorithm string
	flagLevel     string
	flagOutput    string
)

var rootCmd = &cobra.Command{
	Use:   "press",
	Short: "Compress and decompress files with a unified level scale",
	Long: `press compresses and decompresses files with zstd, brotli, zlib,
bz2, lz4 or xz behind one interface. Levels run from 1 (fastest) to 10
(best ratio); the presets fast, balanced and best map onto that scale.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var compressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Compress a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], true)
	},
}

var decompressCmd = &cobra.Command{
	Use:   "decompress <file>",
	Short: "Decompress a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], false)
	},
}

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List supported algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, algo := range domain.Algorithms() {
			fmt.Println(algo)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagAlgorithm, "algorithm", "a", "", "Algorithm to use (zstd, brotli, zlib, bz2, lz4, xz)")
	rootCmd.PersistentFlags().StringVarP(&flagLevel, "level", "l", "", "Level 1-10 or preset (fast, balanced, best)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file (defaults to stdout)")

	rootCmd.AddCommand(compressCmd, decompressCmd, algorithmsCmd)
}

// Flags override the config file, which overrides defaults.
func resolveOptions() (*config.Config, *press.Options, error) {
	cfg := config.DefaultConfig()
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	if flagAlgorithm != "" {
		cfg.Codec.Algorithm = flagAlgorithm
	}
	if flagLevel != "" {
		cfg.Codec.Level = flagLevel
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	return cfg, opts, nil
}

func run(input string, compress bool) error {
	cfg, opts, err := resolveOptions()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Service)
	defer log.Sync()

	compressor, err := press.New(opts, log)
	if err != nil {
		if errors.IsValidationError(err) {
			verr := errors.AsValidationError(err)
			log.Errorw("invalid options", "field", verr.Field, "value", verr.Value, "error", verr.Err)
		}
		return err
	}
	defer compressor.Close(context.Background())

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	var out []byte
	if compress {
		out, err = compressor.Compress(context.Background(), data)
	} else {
		out, err = compressor.Decompress(context.Background(), data)
	}
	if err != nil {
		return err
	}

	if compress {
		log.Infow("done",
			"algorithm", compressor.Algorithm(), "level", compressor.Level(),
			"in_bytes", len(data), "out_bytes", len(out),
		)
	} else {
		log.Infow("done", "algorithm", compressor.Algorithm(), "in_bytes", len(data), "out_bytes", len(out))
	}

	if flagOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(flagOutput, out, 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
