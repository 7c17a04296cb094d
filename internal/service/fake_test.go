package service

import (
	"context"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

type fakeBackend struct {
	auth    *model.AuthStatus
	authErr error
	members []model.Member
	awards  []model.Award
	history []model.HistoryRecord
	err     error

	calls []string
	saved *model.SaveAwardsRequest
}

func (f *fakeBackend) CheckAuth(ctx context.Context, cred backend.Credentials) (*model.AuthStatus, error) {
	f.calls = append(f.calls, "check_auth")
	return f.auth, f.authErr
}

func (f *fakeBackend) Logout(ctx context.Context, cred backend.Credentials) error {
	f.calls = append(f.calls, "logout")
	return f.err
}

func (f *fakeBackend) Members(ctx context.Context, cred backend.Credentials) ([]model.Member, error) {
	f.calls = append(f.calls, "members")
	return f.members, f.err
}

func (f *fakeBackend) WeekAwards(ctx context.Context, cred backend.Credentials, weekDate string) ([]model.Award, error) {
	f.calls = append(f.calls, "week_awards:"+weekDate)
	return f.awards, f.err
}

func (f *fakeBackend) History(ctx context.Context, cred backend.Credentials) ([]model.HistoryRecord, error) {
	f.calls = append(f.calls, "history")
	return f.history, f.err
}

func (f *fakeBackend) SaveAwards(ctx context.Context, cred backend.Credentials, req model.SaveAwardsRequest) error {
	f.calls = append(f.calls, "save_awards")
	f.saved = &req
	return f.err
}

func (f *fakeBackend) ClearAwards(ctx context.Context, cred backend.Credentials, weekDate string) error {
	f.calls = append(f.calls, "clear_awards:"+weekDate)
	return f.err
}
