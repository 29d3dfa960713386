package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AdrianDanlos/rythm/internal/stats"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	subtle  lipgloss.Style
	good    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		key:     lipgloss.NewStyle().Width(22),
		subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

func hours(v *float64) string {
	if v == nil {
		return "-"
	}
	return stats.FormatHours(*v)
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func (s styles) row(b *strings.Builder, key, value string) {
	b.WriteString(s.key.Render(key))
	b.WriteString(value)
	b.WriteByte('\n')
}

func renderStats(w io.Writer, r *stats.Result, msg stats.MotivationMessage) error {
	s := newStyles()
	var b strings.Builder

	b.WriteString(s.title.Render("Rythm summary for " + r.Today))
	b.WriteByte('\n')
	b.WriteString(s.subtle.Render(msg.Text))
	b.WriteByte('\n')

	b.WriteString(s.section.Render("Overview"))
	b.WriteByte('\n')
	s.row(&b, "Entries", fmt.Sprintf("%d (%d complete)", r.TotalEntries, r.CompleteEntries))
	s.row(&b, "Streak", fmt.Sprintf("%d days", r.Streak))
	logged := "no"
	if r.LoggedToday {
		logged = s.good.Render("yes")
	}
	s.row(&b, "Logged today", logged)
	rhythm := "-"
	if r.RhythmScore != nil {
		rhythm = fmt.Sprintf("%d/100", *r.RhythmScore)
	}
	s.row(&b, "Rhythm score", rhythm)
	if r.SleepConsistency != "" {
		s.row(&b, "Sleep consistency", r.SleepConsistency)
	}

	b.WriteString(s.section.Render("Averages"))
	b.WriteByte('\n')
	for _, days := range []int{7, 30, 90} {
		ws := r.WindowAverages[days]
		s.row(&b, fmt.Sprintf("Last %d days", days), fmt.Sprintf("sleep %s  mood %s  (%d)", hours(ws.Sleep), score(ws.Mood), ws.Count))
	}

	b.WriteString(s.section.Render("Sleep and mood"))
	b.WriteByte('\n')
	if r.Correlation != nil {
		s.row(&b, "Correlation", fmt.Sprintf("%s (r=%.2f, n=%d), %s", r.Correlation.Label, r.Correlation.R, r.Correlation.N, strings.ToLower(r.Correlation.Direction)))
	} else {
		s.row(&b, "Correlation", "not enough data")
	}
	if split := r.MoodBySleepThreshold; split != nil {
		s.row(&b, "Mood by "+stats.FormatHours(split.Threshold), fmt.Sprintf("above %s  below %s", score(split.Above), score(split.Below)))
	}
	if r.PersonalSleepThreshold != nil {
		s.row(&b, "Personal threshold", hours(r.PersonalSleepThreshold))
	}

	if len(r.TagInsights) > 0 {
		b.WriteString(s.section.Render("Tags"))
		b.WriteByte('\n')
		for _, t := range r.TagInsights {
			fmt.Fprintf(&b, "%-22sx%d  sleep %s  mood %s\n", t.Tag, t.Count, hours(t.Sleep), score(t.Mood))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderBadges(w io.Writer, badges []stats.Badge) error {
	s := newStyles()
	var b strings.Builder

	b.WriteString(s.title.Render(fmt.Sprintf("Badges %d/%d", stats.CountUnlocked(badges), len(badges))))
	b.WriteByte('\n')
	for _, badge := range badges {
		mark := "[ ]"
		if badge.Unlocked {
			mark = s.good.Render("[x]")
		}
		title := badge.Title
		if badge.TierLabel != "" {
			title += " (" + badge.TierLabel + ")"
		}
		fmt.Fprintf(&b, "%s %-34s %s\n", mark, title, s.subtle.Render(badge.ProgressText))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
