// Package state holds the per-operator page state of the awards console
// and the transitions every console action applies to it.
package state

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"
	"github.com/vervelak/lastwar-alliance-manager/internal/view"
	"github.com/vervelak/lastwar-alliance-manager/internal/week"
)

type Confirm string

const (
	ConfirmNone   Confirm = ""
	ConfirmSave   Confirm = "save"
	ConfirmClear  Confirm = "clear"
	ConfirmLogout Confirm = "logout"
)

type Flash struct {
	Error bool
	Text  string
}

type slotKey struct {
	award model.AwardType
	rank  int
}

// Page is one operator's console. Callers hold Lock for the duration of an action.
type Page struct {
	mu sync.Mutex

	ID string
	// Session is the console session that opened the page. One session
	// may hold a page per browser tab.
	Session  string
	Username string
	Rank     string

	Week   time.Time
	Roster []model.Member
	// Saved is the last known backend state of Week.
	Saved  model.Assignments
	Active map[model.AwardType]bool

	selections map[slotKey]int
	searches   map[slotKey]string

	History       []model.HistoryRecord
	HistoryFailed bool
	HistoryFilter view.HistoryFilter

	Pending Confirm
	AtRisk  []model.AwardType
	Flash   *Flash

	touched atomic.Int64
}

func NewPage(id, username, rank string, monday time.Time) *Page {
	p := &Page{
		ID:         id,
		Username:   username,
		Rank:       rank,
		Week:       monday,
		Saved:      model.Assignments{},
		Active:     map[model.AwardType]bool{},
		selections: map[slotKey]int{},
		searches:   map[slotKey]string{},
	}
	for _, t := range model.AwardTypes {
		p.Active[t] = true
	}
	p.touch(time.Now())
	return p
}

func (p *Page) Lock()   { p.mu.Lock() }
func (p *Page) Unlock() { p.mu.Unlock() }

func (p *Page) touch(now time.Time) { p.touched.Store(now.UnixNano()) }

func (p *Page) lastTouched() time.Time { return time.Unix(0, p.touched.Load()) }

func (p *Page) WeekDate() string { return week.Format(p.Week) }

// Selected is the slot's in-progress selection, else its saved member.
func (p *Page) Selected(t model.AwardType, rank int) int {
	if v, ok := p.selections[slotKey{t, rank}]; ok {
		return v
	}
	return p.Saved.Get(t, rank)
}

func (p *Page) Search(t model.AwardType, rank int) string {
	return p.searches[slotKey{t, rank}]
}

func (p *Page) SetRoster(members []model.Member) {
	p.Roster = view.SortMembers(members)
}

// LoadWeek replaces the saved map with a fresh load and drops every in-progress edit.
func (p *Page) LoadWeek(a model.Assignments) {
	if a == nil {
		a = model.Assignments{}
	}
	p.Saved = a
	p.selections = map[slotKey]int{}
	p.searches = map[slotKey]string{}
}

// Navigate moves the current week by dir weeks. The caller reloads assignments.
func (p *Page) Navigate(dir int) {
	p.Week = week.Shift(p.Week, dir)
}

// ApplyForm records the posted value of every rendered control. Selectors
// for active types are taken as-is, including an explicit empty choice. A
// row whose search text changed is re-filtered and auto-selects its single
// remaining member.
func (p *Page) ApplyForm(form url.Values) {
	var searched []slotKey
	for name, vals := range form {
		kind, t, rank, ok := view.ParseField(name)
		if !ok || !p.Active[t] || len(vals) == 0 {
			continue
		}
		k := slotKey{t, rank}
		switch kind {
		case "sel":
			id, err := strconv.Atoi(vals[0])
			if err != nil || id < 0 {
				id = 0
			}
			p.selections[k] = id
		case "q":
			q := vals[0]
			if q == p.searches[k] {
				continue
			}
			if strings.TrimSpace(q) == "" {
				delete(p.searches, k)
			} else {
				p.searches[k] = q
			}
			searched = append(searched, k)
		}
	}
	for _, k := range searched {
		if _, only := view.FilterMembers(p.Roster, p.searches[k]); only != 0 {
			p.selections[k] = only
		}
	}

	if vals, ok := form["hweek"]; ok && len(vals) > 0 {
		p.HistoryFilter.Week = vals[0]
	}
	if vals, ok := form["hsearch"]; ok && len(vals) > 0 {
		p.HistoryFilter.Search = vals[0]
	}
}

func (p *Page) Activate(t model.AwardType) {
	if model.IsAwardType(string(t)) {
		p.Active[t] = true
	}
}

// Deactivate hides t. Its in-progress edits are dropped; the saved map is untouched.
func (p *Page) Deactivate(t model.AwardType) {
	delete(p.Active, t)
	p.dropEdits(t)
}

// ToggleAll hides every type when all are active, otherwise shows them all.
func (p *Page) ToggleAll() {
	if len(p.Active) == len(model.AwardTypes) {
		for _, t := range model.AwardTypes {
			p.Deactivate(t)
		}
		return
	}
	for _, t := range model.AwardTypes {
		p.Active[t] = true
	}
}

func (p *Page) dropEdits(t model.AwardType) {
	for rank := 1; rank <= model.MaxRank; rank++ {
		delete(p.selections, slotKey{t, rank})
		delete(p.searches, slotKey{t, rank})
	}
}

func (p *Page) HiddenWithData() []model.AwardType {
	return AtRisk(p.Active, p.Saved)
}

func (p *Page) Payload() model.SaveAwardsRequest {
	return BuildPayload(p.WeekDate(), p.Active, p.Selected)
}

// MarkSaved records a successful full-replace save as the new saved map.
func (p *Page) MarkSaved(req model.SaveAwardsRequest) {
	p.Saved = model.IndexAwards(req.Awards)
}

// ClearWeek resets the page after the backend deleted the week.
func (p *Page) ClearWeek() {
	p.LoadWeek(model.Assignments{})
}

func (p *Page) FormInput() view.FormInput {
	return view.FormInput{
		Roster:   p.Roster,
		Active:   p.Active,
		Selected: p.Selected,
		Search:   p.Search,
	}
}

func (p *Page) SetFlash(isErr bool, text string) {
	p.Flash = &Flash{Error: isErr, Text: text}
}

// TakeFlash returns the pending flash once.
func (p *Page) TakeFlash() *Flash {
	f := p.Flash
	p.Flash = nil
	return f
}

// AtRisk lists, in canonical order, the inactive award types that hold saved
// assignments. Saving replaces the whole week, so these would be erased.
func AtRisk(active map[model.AwardType]bool, saved model.Assignments) []model.AwardType {
	var out []model.AwardType
	for _, t := range model.AwardTypes {
		if !active[t] && saved.HasData(t) {
			out = append(out, t)
		}
	}
	return out
}

// BuildPayload collects one award per visible slot with a member chosen.
func BuildPayload(weekDate string, active map[model.AwardType]bool, selected func(model.AwardType, int) int) model.SaveAwardsRequest {
	req := model.SaveAwardsRequest{WeekDate: weekDate, Awards: []model.Award{}}
	for _, t := range view.ActiveSorted(active) {
		for rank := 1; rank <= model.MaxRank; rank++ {
			if id := selected(t, rank); id > 0 {
				req.Awards = append(req.Awards, model.Award{AwardType: t, Rank: rank, MemberID: id})
			}
		}
	}
	return req
}

func HiddenWarning(types []model.AwardType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return fmt.Sprintf("Warning: %d hidden award(s) have saved data that will be deleted:\n\n%s\n\nOnly visible awards will be saved. Continue?",
		len(types), strings.Join(names, ", "))
}
