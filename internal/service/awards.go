package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

var (
	ErrSaveFailed  = errors.New("Failed to save awards")
	ErrClearFailed = errors.New("Failed to clear awards")
)

type AwardService struct {
	api Backend
}

func NewAwardService(api Backend) *AwardService {
	return &AwardService{api: api}
}

func (s *AwardService) Roster(ctx context.Context, cred backend.Credentials) ([]model.Member, error) {
	members, err := s.api.Members(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	return members, nil
}

// LoadWeek fetches the week's assignments keyed by award type and rank.
func (s *AwardService) LoadWeek(ctx context.Context, cred backend.Credentials, weekDate string) (model.Assignments, error) {
	awards, err := s.api.WeekAwards(ctx, cred, weekDate)
	if err != nil {
		return nil, fmt.Errorf("load awards for %s: %w", weekDate, err)
	}
	return model.IndexAwards(awards), nil
}

func (s *AwardService) History(ctx context.Context, cred backend.Credentials) ([]model.HistoryRecord, error) {
	records, err := s.api.History(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

// Save replaces the week on the backend with req. A rejected save reads
// ErrSaveFailed; transport failures keep their own message.
func (s *AwardService) Save(ctx context.Context, cred backend.Credentials, req model.SaveAwardsRequest) error {
	err := s.api.SaveAwards(ctx, cred, req)
	if rejected(err) {
		return ErrSaveFailed
	}
	return err
}

func (s *AwardService) Clear(ctx context.Context, cred backend.Credentials, weekDate string) error {
	err := s.api.ClearAwards(ctx, cred, weekDate)
	if rejected(err) {
		return ErrClearFailed
	}
	return err
}

// rejected logs and reports a backend refusal. The operator only sees a
// generic message, so the response body goes to the log.
func rejected(err error) bool {
	var se *backend.StatusError
	if !errors.As(err, &se) {
		return false
	}
	logger.Warn("backend.rejected", "endpoint", se.Endpoint, "status", se.Code, "body", se.Body)
	return true
}
