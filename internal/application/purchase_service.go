package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/domain/entity"
	repo "github.com/innomart/innomart-server/internal/domain/repository"
	"github.com/innomart/innomart-server/pkg/helpers"
	"github.com/innomart/innomart-server/pkg/mailer"
)

// PurchaseService owns the purchase flow. Payment itself happens out of
// band over a UPI deep link on the device; the server trusts the client's
// "purchase completed" signal and only guarantees that ledger entry and
// aggregate update land together, exactly once per idempotency key.
type PurchaseService struct {
	Repo        repo.PurchaseRepository
	Users       repo.UserRepository
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
}

func NewPurchaseService(r repo.PurchaseRepository, users repo.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *PurchaseService {
	return &PurchaseService{Repo: r, Users: users, Pub: pub, Logger: logger, MailEnabled: mailEnabled}
}

// Complete records the purchase and increments the listing's aggregates as
// one unit. Retrying with the same key returns the original result without
// double-counting.
func (s *PurchaseService) Complete(ctx context.Context, buyerID, listingID, idempotencyKey string) (*entity.Purchase, *entity.Listing, error) {
	p, l, created, err := s.Repo.CompletePurchase(ctx, buyerID, listingID, idempotencyKey)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"buyer_id":   buyerID,
				"listing_id": listingID,
			}).Error("complete purchase failed")
		}
		return nil, nil, err
	}
	if created {
		s.enqueueReceipt(ctx, p)
	}
	return p, l, nil
}

// Record is the legacy ledger append used by the old client's two-step
// flow. It does not touch the aggregates.
func (s *PurchaseService) Record(ctx context.Context, buyerID, productID, productName string, cost float64) (*entity.Purchase, error) {
	p := &entity.Purchase{
		UserID:      buyerID,
		ProductID:   productID,
		ProductName: productName,
		Cost:        cost,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"buyer_id":   buyerID,
				"product_id": productID,
			}).Error("record purchase failed")
		}
		return nil, err
	}
	return p, nil
}

// Orders returns the caller's purchases joined with seller address and
// contact for the order-history screen.
func (s *PurchaseService) Orders(ctx context.Context, buyerID string) ([]entity.PurchaseOrder, error) {
	return s.Repo.ListByBuyer(ctx, buyerID)
}

// enqueueReceipt publishes a receipt email job. Best effort: a purchase
// never fails because the broker is down.
func (s *PurchaseService) enqueueReceipt(ctx context.Context, p *entity.Purchase) {
	if s.Pub == nil || !s.MailEnabled || s.Users == nil {
		return
	}
	buyer, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil || buyer == nil {
		return
	}
	job := mailer.ReceiptJob{
		To:           buyer.Email,
		Username:     buyer.Username,
		ProductName:  p.ProductName,
		Cost:         fmt.Sprintf("%.2f", p.Cost),
		PurchaseID:   p.ID,
		PurchaseDate: p.PurchaseDate,
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("purchase_id", p.ID).Warn("receipt enqueue failed")
	}
}
