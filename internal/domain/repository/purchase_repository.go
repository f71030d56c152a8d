package repository

import (
	"context"

	"github.com/innomart/innomart-server/internal/domain/entity"
)

// PurchaseRepository defines ledger storage operations. Entries are
// append-only; nothing here mutates or deletes a recorded purchase.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	ListByBuyer(ctx context.Context, buyerID string) ([]entity.PurchaseOrder, error)
	// CompletePurchase appends a ledger entry and increments the listing's
	// aggregates in one transaction. When idempotencyKey was already used,
	// the stored entry and the current listing are returned with
	// created=false and no second increment happens.
	CompletePurchase(ctx context.Context, buyerID, listingID, idempotencyKey string) (p *entity.Purchase, l *entity.Listing, created bool, err error)
}
