// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zender/internal/auth"
	"zender/internal/config"
	"zender/internal/history"
	"zender/internal/httputil"
	"zender/internal/provider"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagLanguage string
	flagNoSubs   bool
	flagQuality  string
	flagPlayer   string
	flagContinue bool
	flagJSON     bool
	flagDebug    bool
	flagMaxPages int
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is the process-wide logger, configured in loadConfig.
var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "zender [url]",
	Short: "Watch Belgian broadcaster streams from the terminal",
	Long: `Zender extracts video metadata and stream URLs from the VRT and SBS
Belgium sites (canvas.be, een.be, vrt.be/vrtnu, vier.be, vijf.be),
plays them with mpv/vlc, or downloads them with ffmpeg.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return playURL(cmd, args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Subtitle language tag (default: nl)")
	rootCmd.PersistentFlags().BoolVarP(&flagNoSubs, "no-subs", "n", false, "Disable subtitles")
	rootCmd.PersistentFlags().StringVarP(&flagQuality, "quality", "q", "", "Video quality: best | worst | 360 | 480 | 720 | 1080")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagContinue, "continue", "c", false, "Auto-resume from history")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output metadata as JSON instead of playing")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().IntVar(&flagMaxPages, "max-pages", 0, "Cap on listing pages walked (default from config)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagLanguage != "" {
		cfg.SubsLanguage = flagLanguage
	}
	if flagMaxPages > 0 {
		cfg.MaxPages = flagMaxPages
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "zender").Logger().Level(level)

	return nil
}

// newExtractor builds the extractor with credentials resolved from the
// config file and the OS keyring. The returned client shares its cookie
// jar with the extractor, so subtitle fetches reuse the login session.
func newExtractor() (*provider.Extractor, *httputil.Client) {
	client := httputil.NewClient()
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	vrtUser := cfg.Accounts.VrtNU.Username
	if vrtUser == "" {
		vrtUser = auth.LoadOptionalSecret("vrtnu", "username")
	}
	creds := auth.Credentials{Username: vrtUser}
	if vrtUser != "" {
		creds.Password = auth.LoadOptionalSecret("vrtnu", vrtUser)
	}
	session := auth.NewSession(client, creds, logger)

	vierUser := cfg.Accounts.Vier.Username
	if vierUser == "" {
		vierUser = auth.LoadOptionalSecret("vier", "username")
	}
	vierPass := ""
	if vierUser != "" {
		vierPass = auth.LoadOptionalSecret("vier", vierUser)
	}
	vierToken := cfg.Accounts.Vier.APIToken
	if vierToken == "" {
		vierToken = auth.LoadOptionalSecret("vier", "api-token")
	}

	ext := provider.New(client, logger, provider.Options{
		Session:   session,
		VierUser:  vierUser,
		VierPass:  vierPass,
		VierToken: vierToken,
		MaxPages:  cfg.MaxPages,
	})
	return ext, client
}

// openHistory opens the watch-history database at its configured path.
func openHistory(ctx context.Context) (*history.Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(ctx, path)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
