package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/api"
	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/wizard"
)

var deleteYes bool

var likeCmd = &cobra.Command{
	Use:   "like <song-id>",
	Short: "Toggle the like on a song",
	Long:  `Like a song, or unlike it if it is already liked. Requires a login.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <song-id>...",
	Short: "Delete songs from the server",
	Long: `Delete one or more songs from the server library.

Asks for confirmation unless --yes is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var songCmd = &cobra.Command{
	Use:   "song <song-id>",
	Short: "Show song details",
	Long:  `Show the server's metadata for a song and the size of its audio.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSong,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(songCmd)
}

func runLike(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}
	if !client.IsAuthenticated() {
		return jerrors.ErrUnauthorized
	}

	id := args[0]
	if err := client.ToggleLike(ctx, id); err != nil {
		return err
	}

	// The toggle endpoint does not say which way it went.
	liked := true
	if song, err := client.GetSong(ctx, id); err == nil {
		liked = song.Liked
	}

	if JSONOutput() {
		return printJSON(map[string]any{"song_id": id, "liked": liked})
	}
	if liked {
		fmt.Printf("%s Liked song %s\n", LikeIcon(true), id)
	} else {
		fmt.Printf("%s Unliked song %s\n", LikeIcon(false), id)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}

	confirmed := deleteYes
	if !confirmed {
		if !isInteractive() {
			return jerrors.WithSuggestion(jerrors.Validation("deleting needs confirmation"),
				"Pass --yes to delete without a prompt")
		}
		confirmed, err = wizard.Confirm(
			fmt.Sprintf("Delete %d song(s)?", len(args)),
			"This removes them from the server for everyone.")
		if err != nil {
			return err
		}
		if !confirmed {
			return report("cancelled", "Cancelled")
		}
	}

	result := deleteSongs(ctx, client, args)
	if JSONOutput() {
		out := map[string]any{"deleted": result.Data}
		if result.HasErrors() {
			out["error"] = result.ErrorSummary()
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, id := range result.Data {
			fmt.Printf("🗑 Deleted song %s\n", id)
		}
	}

	if result.HasErrors() {
		return errors.Join(result.Errors...)
	}
	return nil
}

// deleteSongs deletes each id in turn, collecting failures instead of
// stopping at the first.
func deleteSongs(ctx context.Context, client *api.Client, ids []string) *jerrors.PartialResult[[]string] {
	result := &jerrors.PartialResult[[]string]{Data: []string{}}
	for _, id := range ids {
		if err := client.DeleteSong(ctx, id); err != nil {
			result.AddError(err)
			continue
		}
		result.Data = append(result.Data, id)
	}
	return result
}

func runSong(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}

	id := args[0]
	song, err := client.GetSong(ctx, id)
	if err != nil {
		return err
	}

	var size uint64
	if data, err := client.FetchAudio(ctx, id); err == nil {
		size = uint64(len(data))
	} else {
		logger.Debug().Err(err).Str("song_id", id).Msg("audio unavailable")
	}

	if JSONOutput() {
		return printJSON(map[string]any{"song": song, "audio_bytes": size})
	}
	printSong(song, size)
	return nil
}

func printSong(song *core.Song, size uint64) {
	Normal("ID", song.ID)
	Normal("Title", song.DisplayTitle())
	Normal("Artist", song.DisplayArtist())
	Normal("Liked", LikeIcon(song.Liked))
	if song.CoverURL != "" {
		Normal("Cover", song.CoverURL)
	}
	if size > 0 {
		Normal("Audio", humanize.Bytes(size))
	}
}
