package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/imgmatch/internal/config"
	"github.com/kozaktomas/imgmatch/internal/descriptor"
	"github.com/kozaktomas/imgmatch/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [catalog-dir]",
	Short: "Start the HTTP match API",
	Long: `Start the imgmatch web server. It exposes the catalog listing and a
match endpoint that accepts an uploaded query image and returns ranked
scores. The catalog directory defaults to IMGMATCH_CATALOG.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	catalogDir := cfg.Catalog.Dir
	if len(args) == 1 {
		catalogDir = args[0]
	}
	if catalogDir == "" {
		return errors.New("catalog directory is required (argument or IMGMATCH_CATALOG)")
	}

	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	service := descriptor.NewService(cfg.Descriptor.URL, cfg.Descriptor.Dim)
	extractor := descriptor.NewExtractor(service, cfg.Descriptor.Size)

	server := web.NewServer(cfg, extractor, catalogDir, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Serving catalog %s on http://%s:%d\n", catalogDir, host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
