// Package cli contains all gobacklog subcommands.
package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/backlog"
)

var (
	cfgFile  string
	dataPath string
	verbose  bool
	cfg      app.Config
)

var rootCmd = &cobra.Command{
	Use:   "gobacklog",
	Short: "Read-it-later backlog manager",
	Long: `gobacklog saves web articles and local PDFs into a personal reading
backlog. Saved items get a title, a short summary and source metadata,
optionally refined by a local LLM.

Example usage:
  gobacklog add https://example.com/post --tags go,http
  gobacklog list --status unread
  gobacklog read 1a2b3c4d
  gobacklog export --output backlog.md
  gobacklog serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command. Errors are reported by main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the articles JSON file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	cfg = app.Default()
	if cfgFile != "" {
		fc, err := app.LoadConfigFile(cfgFile)
		if err != nil {
			return err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if verbose {
		cfg.Verbose = true
	}

	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	return app.Validate(cfg)
}

// shortID trims an id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// splitTags parses a comma-separated tag list, dropping blanks.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parsePriority(s string) (backlog.Priority, error) {
	p, err := backlog.ParsePriority(s)
	if err != nil {
		var ve *backlog.ValidationError
		if errors.As(err, &ve) {
			return p, errors.New(ve.Reason)
		}
	}
	return p, err
}
