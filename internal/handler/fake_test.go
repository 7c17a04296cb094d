package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

// fakeAPI is an in-memory awards backend.
type fakeAPI struct {
	mu            sync.Mutex
	authenticated bool
	members       []model.Member
	weeks         map[string][]model.Award
	saveStatus    int

	calls      []string
	lastCookie string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{
		authenticated: true,
		members: []model.Member{
			{ID: 2, Name: "bob", Rank: "R3"},
			{ID: 1, Name: "Alice", Rank: "R4"},
			{ID: 3, Name: "Carol", Rank: "R2"},
		},
		weeks: map[string][]model.Award{},
	}
	srv := httptest.NewServer(f.mux())
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())
	f.lastCookie = r.Header.Get("Cookie")
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) memberName(id int) string {
	for _, m := range f.members {
		if m.ID == id {
			return m.Name
		}
	}
	return ""
}

func (f *fakeAPI) mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/check-auth", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.AuthStatus{Authenticated: f.authenticated, Username: "alice", Rank: "R4"})
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/members", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, f.members)
	})
	mux.HandleFunc("GET /api/awards", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		if wk := r.URL.Query().Get("week"); wk != "" {
			awards := f.weeks[wk]
			if awards == nil {
				awards = []model.Award{}
			}
			writeJSON(w, awards)
			return
		}
		records := []model.HistoryRecord{}
		for wk, awards := range f.weeks {
			for _, a := range awards {
				records = append(records, model.HistoryRecord{
					WeekDate: wk, AwardType: a.AwardType, Rank: a.Rank,
					MemberID: a.MemberID, MemberName: f.memberName(a.MemberID),
				})
			}
		}
		sort.Slice(records, func(i, j int) bool { return records[i].WeekDate < records[j].WeekDate })
		writeJSON(w, records)
	})
	mux.HandleFunc("POST /api/awards", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.saveStatus != 0 {
			w.WriteHeader(f.saveStatus)
			return
		}
		var req model.SaveAwardsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.weeks[req.WeekDate] = req.Awards
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("DELETE /api/awards/{week}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.weeks, r.PathValue("week"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
