package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

type Option struct {
	Value    int
	Label    string
	Selected bool
	Hidden   bool
}

type Slot struct {
	Award       model.AwardType
	Rank        int
	Label       string
	Field       string
	SearchField string
	Search      string
	Options     []Option
}

type Card struct {
	Award model.AwardType
	Slots []Slot
}

type Form struct {
	Cards          []Card
	Inactive       []model.AwardType
	ActiveCount    int
	Total          int
	ToggleAllLabel string
}

// FormInput is everything the award grid is computed from.
type FormInput struct {
	Roster   []model.Member
	Active   map[model.AwardType]bool
	Selected func(t model.AwardType, rank int) int
	Search   func(t model.AwardType, rank int) string
}

const fieldSep = "|"

func SelectField(t model.AwardType, rank int) string {
	return "sel" + fieldSep + string(t) + fieldSep + strconv.Itoa(rank)
}

func SearchField(t model.AwardType, rank int) string {
	return "q" + fieldSep + string(t) + fieldSep + strconv.Itoa(rank)
}

// ParseField splits a select/search field name. ok is false for any other name.
func ParseField(name string) (kind string, t model.AwardType, rank int, ok bool) {
	parts := strings.SplitN(name, fieldSep, 3)
	if len(parts) != 3 || (parts[0] != "sel" && parts[0] != "q") {
		return "", "", 0, false
	}
	rank, err := strconv.Atoi(parts[2])
	if err != nil || rank < 1 || rank > model.MaxRank || !model.IsAwardType(parts[1]) {
		return "", "", 0, false
	}
	return parts[0], model.AwardType(parts[1]), rank, true
}

func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇 1st Place"
	case 2:
		return "🥈 2nd Place"
	default:
		return "🥉 3rd Place"
	}
}

func RankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	default:
		return "🥉"
	}
}

func ToggleAllLabel(active, total int) string {
	switch active {
	case total:
		return "⚙️ Hide All Awards"
	case 0:
		return "⚙️ Show All Awards"
	default:
		return fmt.Sprintf("⚙️ Show All (%d/%d)", active, total)
	}
}

// ActiveSorted returns the active award types in alphabetical order.
func ActiveSorted(active map[model.AwardType]bool) []model.AwardType {
	var out []model.AwardType
	for _, t := range model.AwardTypes {
		if active[t] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func InactiveSorted(active map[model.AwardType]bool) []model.AwardType {
	var out []model.AwardType
	for _, t := range model.AwardTypes {
		if !active[t] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildForm renders the award grid: one card per active type, three ranked
// slots per card, every roster member offered in every slot.
func BuildForm(in FormInput) Form {
	f := Form{
		Inactive: InactiveSorted(in.Active),
		Total:    len(model.AwardTypes),
	}
	for _, t := range ActiveSorted(in.Active) {
		card := Card{Award: t}
		for rank := 1; rank <= model.MaxRank; rank++ {
			card.Slots = append(card.Slots, buildSlot(in, t, rank))
		}
		f.Cards = append(f.Cards, card)
	}
	f.ActiveCount = len(f.Cards)
	f.ToggleAllLabel = ToggleAllLabel(f.ActiveCount, f.Total)
	return f
}

func buildSlot(in FormInput, t model.AwardType, rank int) Slot {
	selected := 0
	if in.Selected != nil {
		selected = in.Selected(t, rank)
	}
	search := ""
	if in.Search != nil {
		search = in.Search(t, rank)
	}
	visible, _ := FilterMembers(in.Roster, search)

	s := Slot{
		Award:       t,
		Rank:        rank,
		Label:       RankLabel(rank),
		Field:       SelectField(t, rank),
		SearchField: SearchField(t, rank),
		Search:      search,
		Options:     make([]Option, 0, len(in.Roster)+1),
	}
	s.Options = append(s.Options, Option{Label: "-- Select Member --", Selected: selected == 0})
	for i, m := range in.Roster {
		s.Options = append(s.Options, Option{
			Value:    m.ID,
			Label:    fmt.Sprintf("%s (%s)", m.Name, m.Rank),
			Selected: m.ID == selected && selected != 0,
			Hidden:   !visible[i],
		})
	}
	return s
}
