// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bstardust/photo-geometa/internal/config"
	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/pkg/s3client"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %s", s3client.FormatError(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.New()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "geometa",
		Short: "Inspect and convert photo GPS and orientation metadata",
		Long: `geometa reads EXIF and XMP sidecar metadata from photos, reconciles GPS
positions and orientation, and converts between the decimal, rational and
XMP coordinate forms used by image metadata.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, cfg, configPath); err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)
			return cfg.Validate()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("GEOMETA_CONFIG"), "Configuration file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(newInspectCommand(cfg))
	rootCmd.AddCommand(newGPSCommand(cfg))
	rootCmd.AddCommand(newOrientCommand())

	return rootCmd
}

// applyConfig loads the file and environment configuration into cfg while
// keeping the values of flags given on the command line.
func applyConfig(cmd *cobra.Command, cfg *config.Config, path string) error {
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	overrides := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		typ := f.Value.Type()
		if strings.HasSuffix(typ, "Slice") || strings.HasSuffix(typ, "Array") {
			return
		}
		overrides[f.Name] = f.Value.String()
	})

	*cfg = *loaded
	for name, value := range overrides {
		if err := cmd.Flags().Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
