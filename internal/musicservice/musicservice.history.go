package musicservice

import (
	"context"

	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/models"
)

// History lists generation records newest first. Without a record store it
// returns an empty result.
func (s *MusicService) History(ctx context.Context, filters models.GenerationFilters) (*models.HistoryResult, error) {
	filters = filters.Normalize()
	result := &models.HistoryResult{Success: true, Records: []*models.GenerationRecord{}}
	if s.Records == nil {
		return result, nil
	}

	records, err := s.Records.List(ctx, filters)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewDatabaseError("Failed to fetch history", err)
	}
	if records != nil {
		result.Records = records
	}
	result.Count = len(result.Records)
	return result, nil
}
