package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zender/internal/download"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a video with ffmpeg",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

var flagOutDir string

func init() {
	downloadCmd.Flags().StringVarP(&flagOutDir, "dir", "o", "", "Output directory (default from config)")
	downloadCmd.Flags().BoolVar(&flagPick, "pick", false, "Pick the format interactively")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	ext, client := newExtractor()
	video, err := ext.Extract(args[0])
	if err != nil {
		return loginHint(err)
	}

	format, err := chooseFormat(video, cfg.Quality, flagPick)
	if err != nil {
		return err
	}
	logger.Debug().Str("format", format.ID).Msg("format chosen")

	subFile, cleanup := fetchSubtitle(client, video)
	defer cleanup()

	dir := flagOutDir
	if dir == "" {
		dir, err = cfg.ExpandDownloadDir()
		if err != nil {
			return fmt.Errorf("resolving download dir: %w", err)
		}
	}

	outputPath, err := download.Download(format, video.Title, dir, subFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
	return nil
}
