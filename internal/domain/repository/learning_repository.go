package repository

import (
	"context"

	"github.com/innomart/innomart-server/internal/domain/entity"
)

// LearningContentRepository stores the in-app learning material.
type LearningContentRepository interface {
	Create(ctx context.Context, lc *entity.LearningContent) error
	ListAll(ctx context.Context) ([]entity.LearningContent, error)
}
