package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "imgmatch",
	Short: "A CLI tool for matching images against a keypoint descriptor catalog",
	Long: `Imgmatch finds the image in a catalog that most resembles a query image.
It extracts local keypoint descriptors through an external descriptor
service, persists one descriptor collection per indexed image, and scores
catalog entries with threshold-gated nearest-neighbor distances.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
