package view

import (
	"sort"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"
	"github.com/vervelak/lastwar-alliance-manager/internal/week"
)

type HistoryFilter struct {
	Week   string
	Search string
}

type WeekOption struct {
	Value string
	Label string
}

type HistoryItem struct {
	Rank       int
	Icon       string
	MemberName string
}

type HistoryAward struct {
	Award model.AwardType
	Items []HistoryItem
}

type HistoryWeek struct {
	WeekDate string
	Label    string
	Awards   []HistoryAward
}

// Weeks lists the distinct week dates in records, most recent first.
func Weeks(records []model.HistoryRecord) []WeekOption {
	seen := map[string]bool{}
	var dates []string
	for _, r := range records {
		if !seen[r.WeekDate] {
			seen[r.WeekDate] = true
			dates = append(dates, r.WeekDate)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]WeekOption, 0, len(dates))
	for _, d := range dates {
		out = append(out, WeekOption{Value: d, Label: week.Display(d)})
	}
	return out
}

// FilterHistory keeps records matching both the exact week and the member-name substring.
func FilterHistory(records []model.HistoryRecord, f HistoryFilter) []model.HistoryRecord {
	var out []model.HistoryRecord
	for _, r := range records {
		if f.Week != "" && r.WeekDate != f.Week {
			continue
		}
		if !NameMatches(r.MemberName, f.Search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// BuildHistory groups the filtered records by week (descending), award type
// (ascending) and rank (ascending). An empty result means render the placeholder.
func BuildHistory(records []model.HistoryRecord, f HistoryFilter) []HistoryWeek {
	byWeek := map[string]map[model.AwardType][]model.HistoryRecord{}
	for _, r := range FilterHistory(records, f) {
		if byWeek[r.WeekDate] == nil {
			byWeek[r.WeekDate] = map[model.AwardType][]model.HistoryRecord{}
		}
		byWeek[r.WeekDate][r.AwardType] = append(byWeek[r.WeekDate][r.AwardType], r)
	}

	weeks := make([]string, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))

	out := make([]HistoryWeek, 0, len(weeks))
	for _, w := range weeks {
		hw := HistoryWeek{WeekDate: w, Label: week.Display(w)}
		types := make([]model.AwardType, 0, len(byWeek[w]))
		for t := range byWeek[w] {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		for _, t := range types {
			recs := byWeek[w][t]
			sort.SliceStable(recs, func(i, j int) bool { return recs[i].Rank < recs[j].Rank })
			ha := HistoryAward{Award: t}
			for _, r := range recs {
				ha.Items = append(ha.Items, HistoryItem{Rank: r.Rank, Icon: RankIcon(r.Rank), MemberName: r.MemberName})
			}
			hw.Awards = append(hw.Awards, ha)
		}
		out = append(out, hw)
	}
	return out
}
