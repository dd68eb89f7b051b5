package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"zarrsum/internal/checksum"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zarrsum",
	Short: "Compute a deterministic checksum for a hierarchical array store",
	Long: `zarrsum folds every file's path, size, and content digest in a
zarr-style directory store into a single root checksum. Two runs over
the same content produce the same checksum, so any added, removed,
moved, or modified file anywhere in the store can be detected without
re-reading file contents.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(s3Cmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// printResult writes the checksum to stdout and the human-readable
// summary to stderr, so the checksum alone is what pipelines capture.
func printResult(res *checksum.Result) {
	fmt.Fprintf(os.Stderr, "Files: %d\n", res.FileCount)
	fmt.Fprintf(os.Stderr, "Total size: %s\n", humanize.Bytes(uint64(res.TotalSize)))
	fmt.Println(res.Checksum)
}
