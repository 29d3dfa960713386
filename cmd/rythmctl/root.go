package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/stats"
)

const dateLayout = "2006-01-02"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rythmctl",
		Short: "Offline tools for rythm sleep and mood data",
		Long: `rythmctl works on JSON dumps of rythm entries, either the server's
entries file or the body of GET /api/entries.

COMMANDS
  stats      Print the stats summary for a dump
  badges     List badges and their progress
  export     Convert a dump to CSV
  token      Issue a signed API token`,
		SilenceUsage: true,
	}
	root.AddCommand(newStatsCmd(), newBadgesCmd(), newExportCmd(), newTokenCmd())
	return root
}

// dumpFlags are shared by every command that reads a dump.
type dumpFlags struct {
	file string
	user string
}

func (f *dumpFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON dump of entries")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id to select when the dump holds several users")
	_ = cmd.MarkFlagRequired("file")
}

func (f *dumpFlags) load() ([]internal.Entry, error) {
	raw, err := os.ReadFile(f.file)
	if err != nil {
		return nil, err
	}
	entries, err := decodeDump(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.file, err)
	}
	return selectUser(entries, f.user)
}

// decodeDump accepts a bare array of entries or an API envelope whose data
// is one.
func decodeDump(raw []byte) ([]internal.Entry, error) {
	var entries []internal.Entry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}
	var envelope struct {
		Data []internal.Entry `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("not an entries dump: %w", err)
	}
	return envelope.Data, nil
}

func selectUser(entries []internal.Entry, user string) ([]internal.Entry, error) {
	if user != "" {
		return lo.Filter(entries, func(e internal.Entry, _ int) bool { return e.UserID == user }), nil
	}
	users := lo.Uniq(lo.Map(entries, func(e internal.Entry, _ int) string { return e.UserID }))
	if len(users) > 1 {
		return nil, fmt.Errorf("dump holds %d users, pick one with --user", len(users))
	}
	return entries, nil
}

// statsFlags add the clock and threshold knobs on top of dumpFlags.
type statsFlags struct {
	dumpFlags
	today     string
	threshold string
}

func (f *statsFlags) register(cmd *cobra.Command) {
	f.dumpFlags.register(cmd)
	cmd.Flags().StringVar(&f.today, "today", "", "evaluate as of this YYYY-MM-DD instead of the local date")
	cmd.Flags().StringVar(&f.threshold, "threshold", "7:00", "sleep threshold as h:mm or decimal hours")
}

func (f *statsFlags) build() (*stats.Result, error) {
	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	threshold, err := stats.ParseHours(f.threshold)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || threshold > 24 {
		return nil, errors.New("--threshold must be in (0, 24]")
	}

	now := time.Now()
	format := stats.LocalDateFormatter(time.Local)
	if f.today != "" {
		day, err := time.Parse(dateLayout, f.today)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		now = day.Add(12 * time.Hour)
		format = stats.DefaultDateFormatter
	}
	return stats.BuildStats(entries, threshold, format, now)
}
