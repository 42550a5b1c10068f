package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"imagerank/config"
	"imagerank/database"
	"imagerank/history"
	"imagerank/imageprocessor"
	"imagerank/logging"
	"imagerank/types"
	"imagerank/utils"
)

// leaderboardRow is one line of the list output
type leaderboardRow struct {
	types.ImageRecord
	Viable bool
	Size   string
	Taken  string
	Camera string
}

func handleListCommand(cfg config.Config, args map[string]string) int {
	top := 0
	if v, ok := args["top"]; ok {
		n, err := utils.ParsePositiveInt("top", v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitUsage
		}
		top = n
	}

	backend, db, err := openBackend(cfg)
	if err != nil {
		log.Printf("%v", err)
		return exitFatal
	}
	if db != nil {
		defer db.Close()
	}

	records, err := backend.Load()
	if err != nil {
		log.Printf("Failed to load ratings: %v", err)
		return exitFatal
	}

	ranked := rankRecords(records, top)

	var meta map[string]imageprocessor.Metadata
	if imageprocessor.ExiftoolAvailable() && len(ranked) > 0 {
		reader, err := imageprocessor.NewMetadataReader()
		if err != nil {
			logging.LogWarning("Failed to start exiftool: %v", err)
		} else {
			paths := make([]string, len(ranked))
			for i, r := range ranked {
				paths[i] = r.Path
			}
			meta = reader.Read(paths...)
			reader.Close()
		}
	}

	rows := make([]leaderboardRow, len(ranked))
	for i, rec := range ranked {
		rows[i] = describe(rec, cfg.MinScore, meta)
	}
	if err := writeLeaderboard(os.Stdout, rows); err != nil {
		log.Printf("Failed to write listing: %v", err)
		return exitFatal
	}

	if db != nil {
		if stats, err := database.GetStats(db.DB); err == nil {
			fmt.Printf("\n%d images, %d comparisons in %d sessions\n", stats.TotalImages, stats.TotalMatches, stats.Sessions)
		} else {
			logging.LogWarning("Failed to read database stats: %v", err)
		}
	}
	if cfg.History != "" {
		lines, err := history.ReadLines(cfg.History)
		if err != nil {
			log.Printf("Failed to read history %s: %v", cfg.History, err)
			return exitFatal
		}
		fmt.Printf("%d comparisons recorded in %s\n", len(lines), cfg.History)
	}
	return exitOK
}

// rankRecords sorts by rating, best first, and keeps at most top records
// when top is positive.
func rankRecords(records []types.ImageRecord, top int) []types.ImageRecord {
	out := append([]types.ImageRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Path < out[j].Path
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

func describe(rec types.ImageRecord, minScore float64, meta map[string]imageprocessor.Metadata) leaderboardRow {
	row := leaderboardRow{ImageRecord: rec, Viable: rec.Rating >= minScore, Size: "-"}
	if imageprocessor.IsSupported(rec.Path) {
		if info, err := imageprocessor.Probe(rec.Path); err == nil {
			row.Size = fmt.Sprintf("%dx%d", info.Width, info.Height)
		} else {
			logging.DebugLog("Cannot probe %s: %v", rec.Path, err)
		}
	}
	if md, ok := meta[rec.Path]; ok {
		row.Taken, row.Camera = md.Taken, md.Camera
	}
	return row
}

func writeLeaderboard(w io.Writer, rows []leaderboardRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRATING\tGAMES\t\tSIZE\tTAKEN\tCAMERA\tPATH")
	for i, r := range rows {
		mark := ""
		if !r.Viable {
			mark = "x"
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, r.Rating, r.Games, mark, r.Size, orDash(r.Taken), orDash(r.Camera), r.Path)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
