package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/kozaktomas/imgmatch/internal/config"
	"github.com/kozaktomas/imgmatch/internal/descriptor"
	"github.com/kozaktomas/imgmatch/internal/matcher"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [image] [catalog-dir]",
	Short: "Match an image against a descriptor catalog",
	Long: `Match scores every entry of a descriptor catalog against the query
image. Each catalog descriptor is matched to its nearest neighbor among
the query's descriptors; distances below the threshold contribute
threshold-distance to the entry's score. Higher scores mean more similar.

Scores are not normalized across catalog entries with differing
descriptor counts; an entry with more matched keypoints scores higher.

Examples:
  # Find the best matches in a catalog
  imgmatch match vacation.jpg ./catalog

  # Use a stricter distance gate (fewer, closer matches count)
  imgmatch match vacation.jpg ./catalog --threshold 0.05

  # Top 5 results as JSON
  imgmatch match vacation.jpg ./catalog --limit 5 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Float64("threshold", matcher.DefaultThreshold, "Nearest-neighbor distance gate (0 makes every score 0)")
	matchCmd.Flags().Int("size", descriptor.DefaultSize, "Resize target for the longest image side")
	matchCmd.Flags().Int("limit", 0, "Maximum number of results (0 = all)")
	matchCmd.Flags().Bool("json", false, "Output as JSON")
}

// MatchOutput represents the JSON output structure for a match run
type MatchOutput struct {
	Query     string          `json:"query"`
	Threshold float64         `json:"threshold"`
	Results   []matcher.Match `json:"results"`
	Count     int             `json:"count"`
	Skipped   []string        `json:"skipped,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	threshold := mustGetFloat64(cmd, "threshold")
	if !cmd.Flags().Changed("threshold") {
		threshold = cfg.Matcher.Threshold
	}
	size := mustGetInt(cmd, "size")
	if !cmd.Flags().Changed("size") {
		size = cfg.Descriptor.Size
	}
	limit := mustGetInt(cmd, "limit")
	jsonOutput := mustGetBool(cmd, "json")

	service := descriptor.NewService(cfg.Descriptor.URL, cfg.Descriptor.Dim)
	extractor := descriptor.NewExtractor(service, size)
	m := matcher.New(extractor, threshold)

	scores, err := m.Match(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	var results []matcher.Match
	for scores.Next() {
		results = append(results, scores.Match())
	}

	// The matcher emits scores in catalog order; ranking is on us.
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(MatchOutput{
			Query: args[0], Threshold: threshold, Results: results,
			Count: len(results), Skipped: scores.Skipped(),
		}); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	if len(results) == 0 {
		fmt.Println("Catalog is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCORE")
	fmt.Fprintln(w, "----\t-----")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.4f\n", r.Name, r.Score)
	}
	w.Flush()

	for _, path := range scores.Skipped() {
		fmt.Fprintf(os.Stderr, "Warning: skipped unreadable catalog entry %s\n", path)
	}
	return nil
}
