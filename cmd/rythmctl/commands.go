package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/auth"
	"github.com/AdrianDanlos/rythm/internal/report"
	"github.com/AdrianDanlos/rythm/internal/service"
	"github.com/AdrianDanlos/rythm/internal/stats"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newStatsCmd() *cobra.Command {
	var (
		flags  statsFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the stats summary for a dump",
		Example: `  rythmctl stats --file data/entries.json --user u1
  rythmctl stats -f dump.json --today 2024-03-10 --threshold 7:30 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := flags.build()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			msg := stats.SelectMotivationMessage(stats.NewMotivationContext(result))
			return renderStats(cmd.OutOrStdout(), result, msg)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newBadgesCmd() *cobra.Command {
	var flags statsFlags
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "List badges, closest to unlocking first",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := flags.build()
			if err != nil {
				return err
			}
			return renderBadges(cmd.OutOrStdout(), service.AllBadges(result))
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		flags dumpFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a dump to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := flags.load()
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return report.WriteEntries(cmd.OutOrStdout(), entries)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteEntries(f, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d entries to %s\n", len(entries), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV file to write (stdout when empty)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		user, name, secret string
		ttl                time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		Long:  "Issue an HS256 token the server accepts when it runs with the same JWT_SECRET.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("no signing secret: pass --secret or set JWT_SECRET")
			}
			p := auth.NewJWTProvider(secret, ttl, internal.NewNopLogger())
			token, err := p.IssueToken(&internal.User{ID: user, Name: name})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id to put in the token")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
