package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/imgmatch/internal/catalog"
	"github.com/kozaktomas/imgmatch/internal/config"
	"github.com/kozaktomas/imgmatch/internal/descriptor"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [input-dir] [output-dir]",
	Short: "Build a descriptor catalog from a directory of images",
	Long: `Build extracts keypoint descriptors for every supported image in the
input directory and persists one catalog entry per file in the output
directory, named after the source file's basename.

Files whose name starts with an underscore and files with unsupported
extensions are skipped. A file that fails to load or extract is reported
and skipped; the rest of the build continues. Stale entries from a
previous build are not removed.

Input files must have unique basenames across the traversed tree, since
entries are named by basename.

Examples:
  # Build a catalog with default settings
  imgmatch build ./photos ./catalog

  # Trade accuracy for speed with a smaller resize target
  imgmatch build ./photos ./catalog --size 200`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Int("size", descriptor.DefaultSize, "Resize target for the longest image side")
	buildCmd.Flags().Bool("quiet", false, "Disable the progress bar")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	size := mustGetInt(cmd, "size")
	if !cmd.Flags().Changed("size") {
		size = cfg.Descriptor.Size
	}
	quiet := mustGetBool(cmd, "quiet")

	service := descriptor.NewService(cfg.Descriptor.URL, cfg.Descriptor.Dim)
	extractor := descriptor.NewExtractor(service, size)
	builder := catalog.NewBuilder(extractor, !quiet)

	result, err := builder.Build(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Built %d catalog entries (%d ineligible files skipped)\n", result.Built, result.Skipped)
	if len(result.Failed) > 0 {
		fmt.Printf("Failed to index %d files:\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Printf("  %s: %v\n", f.Path, f.Err)
		}
	}
	return nil
}
