package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zender/internal/ui"
)

var videosCmd = &cobra.Command{
	Use:   "videos <program-url>",
	Short: "List the videos of a vier.be or vijf.be program",
	Long: `Videos walks a program's paginated video listing and prints the video
page URLs it finds, one per line. A URL with an explicit ?page=N fetches
only that page.`,
	Args: cobra.ExactArgs(1),
	RunE: videosRun,
}

var flagPlayEntry bool

func init() {
	videosCmd.Flags().BoolVar(&flagPlayEntry, "play", false, "Pick an entry and play it")
}

func videosRun(cmd *cobra.Command, args []string) error {
	ext, _ := newExtractor()
	listing, err := ext.Listing(args[0])
	if err != nil {
		return err
	}

	if len(listing.Entries) == 0 {
		fmt.Println("No videos found.")
		return nil
	}

	if flagJSON {
		return printJSON(listing)
	}

	if flagPlayEntry {
		items := make([]string, len(listing.Entries))
		for i, e := range listing.Entries {
			items[i] = e.URL
		}
		idx, err := ui.Select(listing.PlaylistID, items)
		if err != nil {
			return err
		}
		return playURL(cmd, listing.Entries[idx].URL)
	}

	for _, e := range listing.Entries {
		fmt.Println(e.URL)
	}
	return nil
}
