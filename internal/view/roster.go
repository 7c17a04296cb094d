package view

import (
	"sort"
	"strings"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMembers returns a copy of members ordered case-insensitively by name.
func SortMembers(members []model.Member) []model.Member {
	out := make([]model.Member, len(members))
	copy(out, members)
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

var folder = cases.Fold()

func normalize(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// NameMatches reports whether name contains term, ignoring case. An empty term matches.
func NameMatches(name, term string) bool {
	term = normalize(term)
	if term == "" {
		return true
	}
	return strings.Contains(folder.String(name), term)
}

// FilterMembers marks which roster entries stay visible for term. only is
// the member id to auto-select: set when term is non-empty and exactly one
// member remains visible.
func FilterMembers(roster []model.Member, term string) (visible []bool, only int) {
	visible = make([]bool, len(roster))
	count := 0
	for i, m := range roster {
		if NameMatches(m.Name, term) {
			visible[i] = true
			count++
			only = m.ID
		}
	}
	if count != 1 || normalize(term) == "" {
		only = 0
	}
	return visible, only
}
