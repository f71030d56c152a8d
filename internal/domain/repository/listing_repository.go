package repository

import (
	"context"

	"github.com/innomart/innomart-server/internal/domain/entity"
)

// ListingUpdate carries the owner-editable fields of a partial update.
// Nil fields retain the stored value.
type ListingUpdate struct {
	Name        *string
	Cost        *float64
	Description *string
}

// ListingRepository defines catalog storage operations. IncrementSales must
// be implemented as an atomic add at the store so concurrent purchases of
// the same listing never lose updates.
type ListingRepository interface {
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	ListAll(ctx context.Context) ([]entity.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.ListingSummary, error)
	Update(ctx context.Context, id string, upd ListingUpdate) (*entity.Listing, error)
	// Delete removes the listing only when ownerID matches; a missing row
	// and a foreign row are both reported as ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error
	IncrementSales(ctx context.Context, id string, costDelta float64) (*entity.Listing, error)
	SetItemImage(ctx context.Context, id, url string) error
}
