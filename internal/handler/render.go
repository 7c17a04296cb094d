package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/vervelak/lastwar-alliance-manager/internal/state"
	"github.com/vervelak/lastwar-alliance-manager/internal/view"
	"github.com/vervelak/lastwar-alliance-manager/internal/week"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Templates parses the embedded console templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func Static() http.FileSystem {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FS(sub)
}

type pageView struct {
	PageID    string
	Operator  string
	WeekDate  string
	WeekLabel string
	Form      view.Form

	Weeks         []view.WeekOption
	HistoryFilter view.HistoryFilter
	History       []view.HistoryWeek
	HistoryFailed bool

	Pending     state.Confirm
	ConfirmText string
	Flash       *state.Flash

	CSRF template.HTML
}

func operatorLabel(username, rank string) string {
	if rank == "" {
		return "👤 " + username
	}
	return "👤 " + username + " (" + rank + ")"
}

func confirmText(p *state.Page) string {
	switch p.Pending {
	case state.ConfirmSave:
		return state.HiddenWarning(p.AtRisk)
	case state.ConfirmClear:
		return confirmClear
	case state.ConfirmLogout:
		return confirmLogout
	}
	return ""
}

// render writes the page. The caller holds the page lock.
func (h *AwardsHandler) render(c *gin.Context, p *state.Page) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "awards.html", pageView{
		PageID:        p.ID,
		Operator:      operatorLabel(p.Username, p.Rank),
		WeekDate:      p.WeekDate(),
		WeekLabel:     week.Display(p.WeekDate()),
		Form:          view.BuildForm(p.FormInput()),
		Weeks:         view.Weeks(p.History),
		HistoryFilter: p.HistoryFilter,
		History:       view.BuildHistory(p.History, p.HistoryFilter),
		HistoryFailed: p.HistoryFailed,
		Pending:       p.Pending,
		ConfirmText:   confirmText(p),
		Flash:         p.TakeFlash(),
		CSRF:          csrf.TemplateField(c.Request),
	})
}
