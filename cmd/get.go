package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zender/internal/media"
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Extract video metadata and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  getRun,
}

var flagSummary bool

func init() {
	getCmd.Flags().BoolVar(&flagSummary, "summary", false, "Print a short human summary instead of JSON")
}

func getRun(cmd *cobra.Command, args []string) error {
	ext, _ := newExtractor()
	video, err := ext.Extract(args[0])
	if err != nil {
		return loginHint(err)
	}

	if flagSummary {
		printSummary(video)
		return nil
	}
	return printJSON(video)
}

func printSummary(v *media.Video) {
	fmt.Println(v.Title)
	fmt.Printf("  id:       %s\n", v.ID)
	if v.Series != "" {
		fmt.Printf("  series:   %s\n", v.Series)
	}
	if v.SeasonNumber > 0 || v.EpisodeNumber > 0 {
		fmt.Printf("  episode:  S%02dE%02d\n", v.SeasonNumber, v.EpisodeNumber)
	}
	if v.ReleaseDate != "" {
		fmt.Printf("  released: %s\n", v.ReleaseDate)
	}
	if v.Duration > 0 {
		d := time.Duration(v.Duration * float64(time.Second)).Round(time.Second)
		fmt.Printf("  duration: %s\n", d)
	}
	for _, f := range v.Formats {
		fmt.Printf("  format:   %s\n", formatLabel(f))
	}
	for lang, tracks := range v.Subtitles {
		fmt.Printf("  subs:     %s (%d)\n", lang, len(tracks))
	}
}
