package stats

import (
	"fmt"
	"sort"
)

type Badge struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Unlocked         bool    `json:"unlocked"`
	ProgressText     string  `json:"progress_text"`
	ProgressValue    float64 `json:"progress_value"`
	ProgressTotal    float64 `json:"progress_total"`
	CurrentTierIndex int     `json:"current_tier_index"`
	TierCount        int     `json:"tier_count"`
	TierLabel        string  `json:"tier_label,omitempty"`
}

// Fraction is the share of progress towards the next unlock, in [0, 1].
func (b Badge) Fraction() float64 {
	if b.ProgressTotal <= 0 {
		return 0
	}
	return clampFloat(b.ProgressValue/b.ProgressTotal, 0, 1)
}

// countBadge builds a single-tier badge unlocked once value reaches target.
func countBadge(id, title, description string, value, target int) Badge {
	progress := min(value, target)
	return Badge{
		ID:            id,
		Title:         title,
		Description:   description,
		Unlocked:      value >= target,
		ProgressText:  fmt.Sprintf("%d/%d", progress, target),
		ProgressValue: float64(progress),
		ProgressTotal: float64(target),
		TierCount:     1,
	}
}

// SortBadges orders badges closest-to-unlocking first: completion fraction
// descending, unlocked before locked, then title.
func SortBadges(badges []Badge) {
	sort.SliceStable(badges, func(i, j int) bool {
		fi, fj := badges[i].Fraction(), badges[j].Fraction()
		if fi != fj {
			return fi > fj
		}
		if badges[i].Unlocked != badges[j].Unlocked {
			return badges[i].Unlocked
		}
		return badges[i].Title < badges[j].Title
	})
}

func CountUnlocked(badges []Badge) int {
	n := 0
	for _, b := range badges {
		if b.Unlocked {
			n++
		}
	}
	return n
}
