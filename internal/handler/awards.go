package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/metrics"
	"github.com/vervelak/lastwar-alliance-manager/internal/middleware"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"
	"github.com/vervelak/lastwar-alliance-manager/internal/service"
	"github.com/vervelak/lastwar-alliance-manager/internal/state"
	"github.com/vervelak/lastwar-alliance-manager/internal/view"
	"github.com/vervelak/lastwar-alliance-manager/internal/week"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	msgSaved       = "✓ Awards saved successfully!"
	msgSaveFailed  = "Failed to save awards: "
	msgCleared     = "✓ Awards cleared for this week."
	msgClearFailed = "Failed to clear awards: "
	msgLogoutError = "Error logging out. Please try again."
	msgWeekMoved   = "This tab is out of date. Review the week shown and try again."

	confirmClear  = "Clear all awards for this week? This cannot be undone."
	confirmLogout = "Are you sure you want to logout?"
)

type AwardsHandler struct {
	auth     *service.AuthService
	awards   *service.AwardService
	store    *state.Store
	sessions *middleware.Sessions
	loginURL string
	loc      *time.Location
	now      func() time.Time
}

func NewAwardsHandler(auth *service.AuthService, awards *service.AwardService, store *state.Store,
	sessions *middleware.Sessions, loginURL string, loc *time.Location) *AwardsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AwardsHandler{
		auth:     auth,
		awards:   awards,
		store:    store,
		sessions: sessions,
		loginURL: loginURL,
		loc:      loc,
		now:      time.Now,
	}
}

// weekField echoes the week a form was rendered for.
const weekField = "week"

// Page is the initial page load: guard the session, then start a fresh
// console on the current week. Each load is a new page, so every browser tab
// keeps its own state under the same session.
func (h *AwardsHandler) Page(c *gin.Context) {
	ctx := c.Request.Context()
	cred := middleware.Credentials(c)

	st, err := h.auth.Check(ctx, cred)
	if err != nil {
		logger.Info("guard.redirect", "err", err)
		c.Redirect(http.StatusFound, h.loginURL)
		return
	}

	sid := state.NewID()
	if prev, err := h.sessions.Claims(c); err == nil && prev.Subject == st.Username {
		sid = prev.ID
	}

	page := state.NewPage(state.NewID(), st.Username, st.Rank, week.MostRecentMonday(h.now().In(h.loc)))
	page.Session = sid
	h.initialLoad(ctx, cred, page)
	h.store.Put(page)

	if err := h.sessions.Issue(c, sid, page.Username, page.Rank); err != nil {
		logger.Error("session.issue.failed", "err", err)
		h.store.Delete(page.ID)
		c.String(http.StatusInternalServerError, "session error")
		return
	}
	logger.Info("console.open", "user", page.Username, "week", page.WeekDate())

	page.Lock()
	defer page.Unlock()
	h.render(c, page)
}

// initialLoad fetches roster, week and history together. A failed part
// stays empty.
func (h *AwardsHandler) initialLoad(ctx context.Context, cred backend.Credentials, page *state.Page) {
	var (
		members []model.Member
		saved   model.Assignments
		records []model.HistoryRecord
		histErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if members, err = h.awards.Roster(ctx, cred); err != nil {
			logger.Warn("load.roster.failed", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if saved, err = h.awards.LoadWeek(ctx, cred, page.WeekDate()); err != nil {
			logger.Warn("load.week.failed", "week", page.WeekDate(), "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if records, histErr = h.awards.History(ctx, cred); histErr != nil {
			logger.Warn("load.history.failed", "err", histErr)
		}
		return nil
	})
	_ = g.Wait()

	page.SetRoster(members)
	page.LoadWeek(saved)
	page.History = records
	page.HistoryFailed = histErr != nil
}

// Action applies one posted console event to the operator's page and
// renders the result.
func (h *AwardsHandler) Action(c *gin.Context) {
	page := middleware.PageFrom(c)
	page.Lock()
	defer page.Unlock()

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	ctx := c.Request.Context()
	cred := middleware.Credentials(c)

	pending := page.Pending
	page.Pending = state.ConfirmNone
	page.AtRisk = nil
	page.ApplyForm(c.Request.PostForm)

	action, arg, _ := strings.Cut(c.PostForm("action"), "|")
	if writes(action) && c.PostForm(weekField) != page.WeekDate() {
		logger.Warn("action.week.mismatch", "action", action, "posted", c.PostForm(weekField), "week", page.WeekDate())
		page.SetFlash(true, msgWeekMoved)
		metrics.RecordAction(action, "stale")
		h.render(c, page)
		return
	}

	outcome := "ok"
	switch action {
	case "", "refresh", "history":
	case "prev":
		h.navigate(ctx, cred, page, -1)
	case "next":
		h.navigate(ctx, cred, page, 1)
	case "activate":
		page.Activate(model.AwardType(arg))
	case "deactivate":
		page.Deactivate(model.AwardType(arg))
	case "toggle-all":
		page.ToggleAll()
	case "save":
		if risk := page.HiddenWithData(); len(risk) > 0 {
			page.Pending = state.ConfirmSave
			page.AtRisk = risk
			outcome = "confirm"
		} else {
			outcome = h.save(ctx, cred, page)
		}
	case "save-confirm":
		if pending != state.ConfirmSave {
			outcome = "stale"
			break
		}
		outcome = h.save(ctx, cred, page)
	case "clear":
		page.Pending = state.ConfirmClear
		outcome = "confirm"
	case "clear-confirm":
		if pending != state.ConfirmClear {
			outcome = "stale"
			break
		}
		outcome = h.clear(ctx, cred, page)
	case "logout":
		page.Pending = state.ConfirmLogout
		outcome = "confirm"
	case "logout-confirm":
		if pending != state.ConfirmLogout {
			outcome = "stale"
			break
		}
		if err := h.auth.Logout(ctx, cred); err != nil {
			logger.Warn("logout.failed", "user", page.Username, "err", err)
			page.SetFlash(true, msgLogoutError)
			outcome = "error"
			break
		}
		metrics.RecordAction(action, outcome)
		logger.Info("logout.ok", "user", page.Username)
		h.store.DeleteSession(page.Session)
		h.sessions.Clear(c)
		c.Redirect(http.StatusSeeOther, h.loginURL)
		return
	case "cancel":
		outcome = "cancelled"
	default:
		logger.Warn("action.unknown", "action", action)
		action, outcome = "unknown", "ignored"
	}
	metrics.RecordAction(action, outcome)

	h.render(c, page)
}

// writes reports the actions that change the backend for the page's week.
func writes(action string) bool {
	switch action {
	case "save", "save-confirm", "clear-confirm":
		return true
	}
	return false
}

func (h *AwardsHandler) navigate(ctx context.Context, cred backend.Credentials, page *state.Page, dir int) {
	page.Navigate(dir)
	saved, err := h.awards.LoadWeek(ctx, cred, page.WeekDate())
	if err != nil {
		logger.Warn("load.week.failed", "week", page.WeekDate(), "err", err)
	}
	page.LoadWeek(saved)
}

func (h *AwardsHandler) save(ctx context.Context, cred backend.Credentials, page *state.Page) string {
	req := page.Payload()
	if err := h.awards.Save(ctx, cred, req); err != nil {
		logger.Warn("awards.save.failed", "user", page.Username, "week", req.WeekDate, "err", err)
		page.SetFlash(true, msgSaveFailed+err.Error())
		return "error"
	}
	logger.Info("awards.save.ok", "user", page.Username, "week", req.WeekDate, "count", len(req.Awards))
	page.MarkSaved(req)
	page.SetFlash(false, msgSaved)
	h.reloadHistory(ctx, cred, page)
	return "ok"
}

func (h *AwardsHandler) clear(ctx context.Context, cred backend.Credentials, page *state.Page) string {
	weekDate := page.WeekDate()
	if err := h.awards.Clear(ctx, cred, weekDate); err != nil {
		logger.Warn("awards.clear.failed", "user", page.Username, "week", weekDate, "err", err)
		page.SetFlash(true, msgClearFailed+err.Error())
		return "error"
	}
	logger.Info("awards.clear.ok", "user", page.Username, "week", weekDate)
	page.ClearWeek()
	page.SetFlash(false, msgCleared)
	h.reloadHistory(ctx, cred, page)
	return "ok"
}

func (h *AwardsHandler) reloadHistory(ctx context.Context, cred backend.Credentials, page *state.Page) {
	records, err := h.awards.History(ctx, cred)
	if err != nil {
		logger.Warn("load.history.failed", "err", err)
		page.HistoryFailed = true
		return
	}
	page.History = records
	page.HistoryFailed = false
}

// Export downloads the history as currently filtered on the page.
func (h *AwardsHandler) Export(c *gin.Context) {
	page := middleware.PageFrom(c)
	page.Lock()
	weeks := view.BuildHistory(page.History, page.HistoryFilter)
	page.Unlock()

	var buf bytes.Buffer
	if err := service.WriteHistoryXLSX(&buf, weeks); err != nil {
		logger.Error("history.export.failed", "err", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="awards-history.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
