package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/core"
)

var (
	listLiked bool
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list [page]",
	Short: "List the songs on a listing page",
	Long: `List the songs a server page shows, in page order. The page
defaults to /songs.

Examples:
  jukebar list               # All songs
  jukebar list /mood/happy   # A mood listing
  jukebar list /library      # Your library (requires login)
  jukebar list /playlist/3 --liked`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the server for songs",
	Long: `Search songs by title or artist. Without a query in a terminal, an
interactive search opens and the chosen song's details are shown.`,
	RunE: runSearch,
}

func init() {
	listCmd.Flags().BoolVar(&listLiked, "liked", false, "only show liked songs")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum songs to show (0 for all)")
	searchCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum songs to show (0 for all)")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	page := "/songs"
	if len(args) > 0 {
		page = args[0]
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	songs, err := fetchListing(cmd.Context(), client, page)
	if err != nil {
		return err
	}
	return printSongs(filterSongs(songs, listLiked, listLimit), page)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if !isInteractive() {
			return fmt.Errorf("search needs a query")
		}
		picked, err := pickSong(ctx, client, nil, "")
		if err != nil {
			return err
		}
		printSong(picked, 0)
		return nil
	}

	query := args[0]
	for _, a := range args[1:] {
		query += " " + a
	}
	songs, err := searchListing(ctx, client, query)
	if err != nil {
		return err
	}
	return printSongs(filterSongs(songs, false, listLimit), fmt.Sprintf("search %q", query))
}

func filterSongs(songs []core.Song, likedOnly bool, limit int) []core.Song {
	if likedOnly {
		songs = lo.Filter(songs, func(s core.Song, _ int) bool { return s.Liked })
	}
	if limit > 0 && len(songs) > limit {
		songs = songs[:limit]
	}
	return songs
}

func printSongs(songs []core.Song, source string) error {
	if JSONOutput() {
		return printJSON(map[string]any{"source": source, "songs": songs})
	}
	if len(songs) == 0 {
		fmt.Printf("No songs on %s\n", source)
		return nil
	}

	tbl := NewTable("#", "ID", "Title", "Artist", "")
	for i, s := range songs {
		tbl.Row(
			fmt.Sprint(i+1),
			s.ID,
			TruncateString(s.DisplayTitle(), 40),
			TruncateString(s.DisplayArtist(), 30),
			LikeIcon(s.Liked),
		)
	}
	tbl.Flush()
	return nil
}
