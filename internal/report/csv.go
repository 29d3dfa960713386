package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/stats"
)

var Header = []string{"date", "sleep", "mood", "tags", "note", "complete"}

const (
	tagSeparator = ";"
	dateLayout   = "2006-01-02"
)

var ErrBadHeader = errors.New("report: unexpected csv header")

// WriteEntries writes entries as CSV, oldest date first. Sleep is written
// as h:mm.
func WriteEntries(w io.Writer, entries []internal.Entry) error {
	sorted := append([]internal.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EntryDate < sorted[j].EntryDate })

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range sorted {
		record := []string{
			e.EntryDate,
			"",
			"",
			strings.Join(e.Tags, tagSeparator),
			"",
			strconv.FormatBool(e.IsComplete),
		}
		if e.SleepHours != nil {
			record[1] = stats.FormatHours(*e.SleepHours)
		}
		if e.Mood != nil {
			record[2] = strconv.Itoa(*e.Mood)
		}
		if e.Note != nil {
			record[4] = *e.Note
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEntries parses CSV written by WriteEntries. Entries carry no user or
// ID; the caller assigns them.
func ReadEntries(r io.Reader) ([]internal.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) != Header[i] {
			return nil, fmt.Errorf("%w: column %d is %q", ErrBadHeader, i+1, h)
		}
	}

	var entries []internal.Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		e, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("report: line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}

func parseRecord(record []string) (internal.Entry, error) {
	var e internal.Entry

	date := strings.TrimSpace(record[0])
	if _, err := time.Parse(dateLayout, date); err != nil {
		return e, fmt.Errorf("invalid date %q", record[0])
	}
	e.EntryDate = date

	if s := strings.TrimSpace(record[1]); s != "" {
		hours, err := stats.ParseHours(s)
		if err != nil {
			return e, err
		}
		e.SleepHours = &hours
	}
	if s := strings.TrimSpace(record[2]); s != "" {
		mood, err := strconv.Atoi(s)
		if err != nil {
			return e, fmt.Errorf("invalid mood %q", s)
		}
		e.Mood = &mood
	}
	e.Tags = lo.FilterMap(strings.Split(record[3], tagSeparator), func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	})
	if record[4] != "" {
		note := record[4]
		e.Note = &note
	}
	if s := strings.TrimSpace(record[5]); s != "" {
		complete, err := strconv.ParseBool(s)
		if err != nil {
			return e, fmt.Errorf("invalid complete flag %q", s)
		}
		e.IsComplete = complete
	}
	return e, nil
}
