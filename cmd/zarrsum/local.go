package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"zarrsum/internal/checksum"
	"zarrsum/internal/config"
	"zarrsum/internal/hash"
	"zarrsum/internal/progress"
	"zarrsum/internal/source"
)

var localCmd = &cobra.Command{
	Use:   "local <directory>",
	Short: "Checksum a store on the local filesystem",
	Long:  `Walk a store directory, hash every file, and print the root checksum.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLocal,
}

var (
	localConfig  string
	localWorkers int
	localDigest  string
	localExclude []string
)

func init() {
	localCmd.Flags().StringVarP(&localConfig, "config", "c", "zarrsum.yaml", "Config file path")
	localCmd.Flags().IntVarP(&localWorkers, "workers", "w", 0, "Number of hashing workers (0 = from config)")
	localCmd.Flags().StringVar(&localDigest, "digest", "", "Content digest algorithm: md5|xxh64")
	localCmd.Flags().StringSliceVarP(&localExclude, "exclude", "e", nil, "Glob patterns to exclude (overrides config)")
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(localConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if localWorkers > 0 {
		cfg.Workers = localWorkers
	}
	if localDigest != "" {
		cfg.Digest = localDigest
	}
	if localExclude != nil {
		cfg.Exclude = localExclude
	}

	algo := hash.Algorithm(cfg.Digest)
	if _, err := algo.New(); err != nil {
		return err
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve store path: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "Discovering files in %s...\n", root)

	bar := progress.New()
	src := &source.Local{
		Root:      root,
		Exclude:   cfg.Exclude,
		Workers:   cfg.Workers,
		Algorithm: algo,
		Bar:       bar,
	}

	result, err := checksum.Compute(ctx, src)
	bar.Finish()
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}
