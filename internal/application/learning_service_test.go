package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innomart/innomart-server/internal/domain/entity"
)

type fakeLearningRepo struct {
	items []entity.LearningContent
}

func (f *fakeLearningRepo) Create(_ context.Context, lc *entity.LearningContent) error {
	lc.ID = uuid.NewString()
	f.items = append(f.items, *lc)
	return nil
}

func (f *fakeLearningRepo) ListAll(_ context.Context) ([]entity.LearningContent, error) {
	out := make([]entity.LearningContent, len(f.items))
	copy(out, f.items)
	return out, nil
}

func TestLearningAddAndList(t *testing.T) {
	svc := NewLearningService(&fakeLearningRepo{}, nil, nil)
	ctx := context.Background()

	lc, err := svc.Add(ctx, "Intro to UPI payments", "https://example.com/upi-guide")
	require.NoError(t, err)
	assert.NotEmpty(t, lc.ID)
	assert.Equal(t, "link", lc.Type, "all added items are links")

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Intro to UPI payments", items[0].Title)
}
