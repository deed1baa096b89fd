package services

import (
	"context"

	"suggest-backend/internal/models"
)

// SuggestService produces prompt suggestions for a draft.
type SuggestService struct{}

func NewSuggestService() *SuggestService {
	return &SuggestService{}
}

// Suggest is a placeholder: it ignores the request and always returns an
// empty, schema-valid response. Ranking, filtering and truncation to
// UIHint.N are not implemented here and must not be inferred.
func (s *SuggestService) Suggest(ctx context.Context, req *models.SuggestRequest) *models.SuggestResponse {
	return models.EmptySuggestResponse()
}
