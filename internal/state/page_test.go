package state

import (
	"net/url"
	"testing"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"
	"github.com/vervelak/lastwar-alliance-manager/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func newTestPage() *Page {
	p := NewPage("p1", "boss", "R5", monday)
	p.SetRoster([]model.Member{
		{ID: 7, Name: "Mia", Rank: "R4"},
		{ID: 3, Name: "alex", Rank: "R3"},
		{ID: 9, Name: "Alexis", Rank: "R2"},
	})
	return p
}

func TestNewPageDefaults(t *testing.T) {
	p := newTestPage()
	assert.Len(t, p.Active, 17)
	assert.Equal(t, "2024-03-04", p.WeekDate())
	assert.Equal(t, "alex", p.Roster[0].Name)
	assert.Equal(t, "Mia", p.Roster[2].Name)
}

func TestSelectedFallsBackToSaved(t *testing.T) {
	p := newTestPage()
	p.LoadWeek(model.Assignments{"MVP": {1: 7}})
	assert.Equal(t, 7, p.Selected("MVP", 1))

	p.ApplyForm(url.Values{view.SelectField("MVP", 1): {""}})
	assert.Equal(t, 0, p.Selected("MVP", 1), "explicit empty choice is kept")
}

func TestToggleKeepsOtherSelections(t *testing.T) {
	p := newTestPage()
	p.LoadWeek(model.Assignments{"Grind King": {2: 3}})
	p.ApplyForm(url.Values{
		view.SelectField("MVP", 1):          {"7"},
		view.SelectField("Good Helper", 3):  {"9"},
		view.SelectField("Grind King", 2):   {"7"},
		view.SelectField("Shining Star", 1): {""},
	})

	p.Deactivate("Good Helper")
	p.Activate("Good Helper")
	p.Deactivate("Divine Healer")

	assert.Equal(t, 7, p.Selected("MVP", 1))
	assert.Equal(t, 7, p.Selected("Grind King", 2))
	assert.Equal(t, 0, p.Selected("Shining Star", 1))
	assert.Equal(t, 0, p.Selected("Good Helper", 3), "re-activated type shows its saved value")
	assert.False(t, p.Active["Divine Healer"])
}

func TestApplyFormIgnoresInactiveAndUnknownFields(t *testing.T) {
	p := newTestPage()
	p.Deactivate("MVP")
	p.ApplyForm(url.Values{
		view.SelectField("MVP", 1): {"7"},
		"sel|Bogus|1":              {"7"},
		"sel|Grind King|9":         {"7"},
		"week":                     {"2020-01-06"},
	})
	p.Activate("MVP")
	assert.Equal(t, 0, p.Selected("MVP", 1))
}

func TestSearchAutoSelectsSingleMatch(t *testing.T) {
	p := newTestPage()
	p.ApplyForm(url.Values{
		view.SelectField("MVP", 1): {""},
		view.SearchField("MVP", 1): {"mi"},
	})
	assert.Equal(t, 7, p.Selected("MVP", 1))
	assert.Equal(t, "mi", p.Search("MVP", 1))

	// unchanged search text does not override a later manual choice
	p.ApplyForm(url.Values{
		view.SelectField("MVP", 1): {"3"},
		view.SearchField("MVP", 1): {"mi"},
	})
	assert.Equal(t, 3, p.Selected("MVP", 1))
}

func TestSearchWithoutSingleMatchKeepsSelection(t *testing.T) {
	p := newTestPage()
	p.ApplyForm(url.Values{
		view.SelectField("MVP", 2): {"7"},
		view.SearchField("MVP", 2): {"alex"},
	})
	assert.Equal(t, 7, p.Selected("MVP", 2))

	p.ApplyForm(url.Values{view.SearchField("MVP", 2): {"zzz"}})
	assert.Equal(t, 7, p.Selected("MVP", 2))
}

func TestToggleAll(t *testing.T) {
	p := newTestPage()
	p.ToggleAll()
	assert.Empty(t, p.Active)

	p.ToggleAll()
	assert.Len(t, p.Active, 17)

	p.Deactivate("MVP")
	p.ToggleAll()
	assert.Len(t, p.Active, 17, "partial state activates all")
}

func TestAtRiskAndPayload(t *testing.T) {
	p := newTestPage()
	p.LoadWeek(model.Assignments{
		"MVP":          {1: 7},
		"Grind King":   {1: 3, 2: 9},
		"Shining Star": {3: 9},
	})
	p.ToggleAll()
	p.ToggleAll()
	for _, at := range model.AwardTypes {
		if at != "MVP" {
			p.Deactivate(at)
		}
	}

	risk := p.HiddenWithData()
	assert.Equal(t, []model.AwardType{"Grind King", "Shining Star"}, risk)
	assert.Equal(t,
		"Warning: 2 hidden award(s) have saved data that will be deleted:\n\nGrind King, Shining Star\n\nOnly visible awards will be saved. Continue?",
		HiddenWarning(risk))

	req := p.Payload()
	assert.Equal(t, model.SaveAwardsRequest{
		WeekDate: "2024-03-04",
		Awards:   []model.Award{{AwardType: "MVP", Rank: 1, MemberID: 7}},
	}, req)

	p.MarkSaved(req)
	assert.Empty(t, p.HiddenWithData())
}

func TestBuildPayloadOrder(t *testing.T) {
	active := map[model.AwardType]bool{"MVP": true, "Best Manager": true}
	sel := model.Assignments{"MVP": {2: 4, 1: 5}, "Best Manager": {3: 6}, "Good Helper": {1: 8}}
	req := BuildPayload("2024-03-04", active, sel.Get)
	assert.Equal(t, []model.Award{
		{AwardType: "Best Manager", Rank: 3, MemberID: 6},
		{AwardType: "MVP", Rank: 1, MemberID: 5},
		{AwardType: "MVP", Rank: 2, MemberID: 4},
	}, req.Awards)
}

func TestNavigateAndClear(t *testing.T) {
	p := newTestPage()
	p.LoadWeek(model.Assignments{"MVP": {1: 7}})
	p.Navigate(-1)
	assert.Equal(t, "2024-02-26", p.WeekDate())
	p.Navigate(2)
	assert.Equal(t, "2024-03-11", p.WeekDate())

	p.ClearWeek()
	for _, at := range model.AwardTypes {
		for rank := 1; rank <= model.MaxRank; rank++ {
			require.Zero(t, p.Selected(at, rank))
		}
	}
}

func TestHistoryFilterFromForm(t *testing.T) {
	p := newTestPage()
	p.ApplyForm(url.Values{"hweek": {"2024-02-26"}, "hsearch": {"mia"}})
	assert.Equal(t, view.HistoryFilter{Week: "2024-02-26", Search: "mia"}, p.HistoryFilter)
}

func TestFlashIsTakenOnce(t *testing.T) {
	p := newTestPage()
	p.SetFlash(false, "✓ Awards saved successfully!")
	f := p.TakeFlash()
	require.NotNil(t, f)
	assert.Equal(t, "✓ Awards saved successfully!", f.Text)
	assert.Nil(t, p.TakeFlash())
}
