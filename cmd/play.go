package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zender/internal/auth"
	"zender/internal/history"
	"zender/internal/httputil"
	"zender/internal/media"
	"zender/internal/player"
	"zender/internal/provider"
	"zender/internal/subtitle"
	"zender/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play a video in the configured player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return playURL(cmd, args[0])
	},
}

// flagPick forces the interactive format picker; shared with download.
var flagPick bool

func init() {
	playCmd.Flags().BoolVar(&flagPick, "pick", false, "Pick the format interactively")
}

// playURL handles the full extract -> choose format -> play flow.
func playURL(cmd *cobra.Command, rawURL string) error {
	site, _, err := provider.Match(rawURL)
	if err != nil {
		return err
	}

	ext, client := newExtractor()
	video, err := ext.Extract(rawURL)
	if err != nil {
		return loginHint(err)
	}

	format, err := chooseFormat(video, cfg.Quality, flagPick)
	if err != nil {
		return err
	}
	logger.Debug().Str("format", format.ID).Msg("format chosen")

	// JSON output mode
	if flagJSON {
		return printJSON(map[string]interface{}{
			"title":     video.Title,
			"url":       format.URL,
			"format_id": format.ID,
			"subtitles": video.Subtitles,
		})
	}

	subFile, cleanup := fetchSubtitle(client, video)
	defer cleanup()

	ctx := cmd.Context()
	var store *history.Store
	if cfg.History {
		s, err := openHistory(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("history unavailable")
		} else {
			store = s
			defer store.Close()
		}
	}

	var startPos float64
	if flagContinue && store != nil {
		if entries, err := store.List(ctx); err == nil {
			for _, e := range entries {
				if e.Site == site.Name && e.ID == video.ID {
					startPos = e.Position
					break
				}
			}
		}
		if startPos > 0 {
			logger.Debug().Float64("position", startPos).Msg("resuming")
		}
	}

	pl := player.New(cfg.Player)
	if !pl.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	lastPos, err := pl.Play(format, video.Title, startPos, subFile)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	if store != nil {
		entry := media.HistoryEntry{
			ID:       video.ID,
			Site:     site.Name,
			Title:    video.Title,
			URL:      rawURL,
			Position: lastPos,
			Duration: video.Duration,
		}
		if err := store.Save(ctx, entry); err != nil {
			logger.Warn().Err(err).Msg("saving history failed")
		}
	}

	return nil
}

// chooseFormat picks a format by the configured quality, or interactively
// when pick is set. Formats arrive sorted best-first, so "best" is the
// head and "worst" the tail; a numeric quality matches on height.
func chooseFormat(video *media.Video, quality string, pick bool) (*media.Format, error) {
	if len(video.Formats) == 0 {
		return nil, fmt.Errorf("no formats for %s", video.ID)
	}

	if pick {
		items := make([]string, len(video.Formats))
		for i, f := range video.Formats {
			items[i] = formatLabel(f)
		}
		idx, err := ui.Select("Format", items)
		if err != nil {
			return nil, err
		}
		return &video.Formats[idx], nil
	}

	switch strings.ToLower(quality) {
	case "", "best":
		return video.BestFormat(), nil
	case "worst":
		return &video.Formats[len(video.Formats)-1], nil
	}

	if want, err := strconv.Atoi(quality); err == nil {
		for i := range video.Formats {
			if video.Formats[i].Height == want {
				return &video.Formats[i], nil
			}
		}
	}
	logger.Debug().Str("quality", quality).Msg("no format at requested quality, using best")
	return video.BestFormat(), nil
}

func formatLabel(f media.Format) string {
	label := f.ID
	if res := f.Resolution(); res != "" {
		label += "  " + res
	}
	if f.Bitrate > 0 {
		label += fmt.Sprintf("  %d kbit/s", f.Bitrate)
	}
	return label
}

// fetchSubtitle downloads the configured-language subtitle track to a
// temp file. Failures degrade to playback without subtitles.
func fetchSubtitle(client *httputil.Client, video *media.Video) (string, func()) {
	noop := func() {}
	if flagNoSubs || len(video.Subtitles) == 0 {
		return "", noop
	}

	sub := subtitle.First(video.Subtitles, cfg.SubsLanguage)
	if sub == nil {
		logger.Debug().Str("language", cfg.SubsLanguage).Msg("no subtitle for configured language")
		return "", noop
	}

	tmp, err := subtitle.NewTempDir()
	if err != nil {
		logger.Warn().Err(err).Msg("creating subtitle dir failed")
		return "", noop
	}
	path, err := tmp.Download(client, *sub)
	if err != nil {
		logger.Warn().Err(err).Msg("subtitle download failed")
		tmp.Cleanup()
		return "", noop
	}
	logger.Debug().Str("file", path).Msg("subtitle downloaded")
	return path, tmp.Cleanup
}

// loginHint decorates login errors with the command that fixes them.
func loginHint(err error) error {
	if errors.Is(err, auth.ErrLoginRequired) {
		return fmt.Errorf("%w (store credentials with 'zender login vrtnu')", err)
	}
	return err
}
