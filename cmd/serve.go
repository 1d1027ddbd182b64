package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server with hot reload",
	Long: `Start the development server. The site is built on startup, rebuilt
whenever Markdown content, static assets, or the configuration change,
and connected browsers reload automatically.

Examples:
  docsmith serve                  # Serve on the configured host/port
  docsmith serve --port 8080      # Serve on a specific port
  docsmith serve --open           # Open the browser after startup`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3000, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("open", false, "Open browser automatically")
	serveCmd.Flags().Bool("drafts", false, "Include draft pages")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.open", serveCmd.Flags().Lookup("open"))
	viper.BindPFlag("content.include_drafts", serveCmd.Flags().Lookup("drafts"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("Shutting down server...")
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			fmt.Fprintf(os.Stderr, "Error during server shutdown: %v\n", shutdownErr)
		}
		cancel()
	}()

	fmt.Printf("Starting docsmith server at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
