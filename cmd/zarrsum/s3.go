package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zarrsum/internal/checksum"
	"zarrsum/internal/config"
	"zarrsum/internal/progress"
	"zarrsum/internal/source"
)

var s3Cmd = &cobra.Command{
	Use:   "s3 <bucket>",
	Short: "Checksum a store held in an S3 bucket",
	Long: `List every object under a bucket prefix and fold the listing into the
root checksum. Object ETags serve as content digests, so nothing is
downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runS3,
}

var (
	s3ConfigPath string
	s3Prefix     string
	s3Region     string
	s3AccessKey  string
	s3SecretKey  string
)

func init() {
	s3Cmd.Flags().StringVarP(&s3ConfigPath, "config", "c", "zarrsum.yaml", "Config file path")
	s3Cmd.Flags().StringVarP(&s3Prefix, "prefix", "p", "", "Key prefix of the store root")
	s3Cmd.Flags().StringVar(&s3Region, "region", "", "AWS region (overrides config)")
	s3Cmd.Flags().StringVar(&s3AccessKey, "access-key", "", "AWS access key (default: ambient credential chain)")
	s3Cmd.Flags().StringVar(&s3SecretKey, "secret-key", "", "AWS secret key")
}

func runS3(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(s3ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	region := cfg.Region
	if s3Region != "" {
		region = s3Region
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "Listing s3://%s/%s...\n", args[0], s3Prefix)

	bar := progress.New()
	src := &source.S3{
		Bucket:    args[0],
		Prefix:    s3Prefix,
		Region:    region,
		AccessKey: s3AccessKey,
		SecretKey: s3SecretKey,
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
