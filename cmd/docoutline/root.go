package main

import (
	"io"
	"log/slog"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "docoutline",
		Short: "Build bookmark outlines for paginated documents",
		Long: `docoutline lays out HTML, Markdown, text, CSV, DOCX, EPUB and PDF files as one
paginated output and prints the bookmark tree of their headings, along with the
page each heading lands on.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("docoutline {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides OUTLINE_CONFIG)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	cmd.AddCommand(newBuildCmd(opts))
	return cmd
}

// loadConfig reads .env files, the environment and the YAML overlay.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg := config.Load()
	path := cfg.ConfigFile
	if o.configFile != "" {
		path = o.configFile
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
