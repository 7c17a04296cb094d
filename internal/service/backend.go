package service

import (
	"context"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

// Backend is the awards REST API as the services use it; *backend.Client implements it.
type Backend interface {
	CheckAuth(ctx context.Context, cred backend.Credentials) (*model.AuthStatus, error)
	Logout(ctx context.Context, cred backend.Credentials) error
	Members(ctx context.Context, cred backend.Credentials) ([]model.Member, error)
	WeekAwards(ctx context.Context, cred backend.Credentials, weekDate string) ([]model.Award, error)
	History(ctx context.Context, cred backend.Credentials) ([]model.HistoryRecord, error)
	SaveAwards(ctx context.Context, cred backend.Credentials, req model.SaveAwardsRequest) error
	ClearAwards(ctx context.Context, cred backend.Credentials, weekDate string) error
}

var _ Backend = (*backend.Client)(nil)
