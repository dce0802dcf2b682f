package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/remote"
	"github.com/tessro/jukebar/internal/tail"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long: `Shows the song, position and volume the player last saved, and
whether a player is running right now.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusResult struct {
	Running  bool       `json:"running"`
	PID      int        `json:"pid,omitempty"`
	Status   string     `json:"status"`
	SongID   string     `json:"song_id,omitempty"`
	Song     *core.Song `json:"song,omitempty"`
	Position float64    `json:"position"`
	Volume   int        `json:"volume"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	snap := tail.SnapshotOf(st.All())
	res := statusResult{
		Running:  remote.Running(st),
		Status:   snap.Status,
		SongID:   snap.SongID,
		Position: snap.Position.Seconds(),
		Volume:   snap.VolumePercent(),
	}
	if res.Running {
		res.PID, _ = remote.PID(st)
	} else {
		// A player that died without releasing leaves a stale status.
		res.Status = remote.StatusStopped
	}

	if snap.HasSong() {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		if song, err := client.GetSong(cmd.Context(), snap.SongID); err == nil {
			res.Song = song
		} else {
			logger.Debug().Err(err).Str("song_id", snap.SongID).Msg("song lookup failed")
		}
	}

	if JSONOutput() {
		return printJSON(res)
	}
	printStatus(res, snap)
	return nil
}

func printStatus(res statusResult, snap *tail.Snapshot) {
	if !snap.HasSong() {
		fmt.Println("Nothing played yet")
		return
	}

	icon := "⏹"
	switch res.Status {
	case remote.StatusPlaying:
		icon = "▶"
	case remote.StatusPaused:
		icon = "⏸"
	}

	title := "song " + res.SongID
	if res.Song != nil {
		title = songLine(res.Song)
	}
	fmt.Printf("%s %s\n", icon, title)
	Normal("Position", FormatDuration(snap.Position))
	Normal("Volume", fmt.Sprintf("%d%%", res.Volume))
	if res.Running {
		Normal("Player", fmt.Sprintf("%s running (pid %d)", StatusIcon(true), res.PID))
	} else {
		Normal("Player", StatusIcon(false)+" not running")
	}
}
