package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/domain/entity"
	repo "github.com/innomart/innomart-server/internal/domain/repository"
	"github.com/innomart/innomart-server/pkg/helpers"
)

const learningCacheKey = "learning:content"
const learningCacheTTL = 5 * time.Minute

// LearningService serves the in-app learning material, with a short-lived
// redis cache in front of the store. The client refreshes this list
// opportunistically, so a few minutes of staleness is fine.
type LearningService struct {
	Repo   repo.LearningContentRepository
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewLearningService(r repo.LearningContentRepository, rdb *redis.Client, logger *logrus.Logger) *LearningService {
	return &LearningService{Repo: r, Redis: rdb, Logger: logger}
}

func (s *LearningService) List(ctx context.Context) ([]entity.LearningContent, error) {
	if s.Redis != nil {
		var cached []entity.LearningContent
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, learningCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	items, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, learningCacheKey, items, learningCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("learning cache write failed")
		}
	}
	return items, nil
}

// Add stores a new link item and invalidates the cached list.
func (s *LearningService) Add(ctx context.Context, title, content string) (*entity.LearningContent, error) {
	lc := &entity.LearningContent{Title: title, Type: "link", Content: content}
	if err := s.Repo.Create(ctx, lc); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, learningCacheKey)
	}
	return lc, nil
}
