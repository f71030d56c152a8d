package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innomart/innomart-server/internal/domain/entity"
	"github.com/innomart/innomart-server/internal/domain/repository"
)

type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *entity.Purchase) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO purchases (user_id, product_id, product_name, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id, purchase_date
	`, p.UserID, p.ProductID, p.ProductName, p.Cost)

	return row.Scan(&p.ID, &p.PurchaseDate)
}

func (r *PurchaseRepository) ListByBuyer(ctx context.Context, buyerID string) ([]entity.PurchaseOrder, error) {
	// LEFT JOIN so history entries survive deletion of the listing.
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.user_id, p.product_id, p.product_name, p.cost, p.purchase_date,
		       l.address_street, l.address_city, l.address_state, l.address_zip, l.address_country,
		       l.contact_phone
		FROM purchases p
		LEFT JOIN listings l ON l.id = p.product_id
		WHERE p.user_id = $1
		ORDER BY p.purchase_date
	`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.PurchaseOrder, 0)
	for rows.Next() {
		var o entity.PurchaseOrder
		var street, city, state, zip, country, phone *string
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.Cost, &o.PurchaseDate,
			&street, &city, &state, &zip, &country, &phone); err != nil {
			return nil, err
		}
		if street != nil {
			o.SellerAddress = &entity.Address{
				Street: *street, City: *city, State: *state, ZipCode: *zip, Country: *country,
			}
			o.SellerContact = &entity.Contact{Phone: *phone}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CompletePurchase performs the two purchase effects as one transaction:
// append a ledger entry and increment the listing's aggregates. The unique
// index on idempotency_key makes client retries harmless; the increment runs
// only for the attempt that actually inserted the row.
func (r *PurchaseRepository) CompletePurchase(ctx context.Context, buyerID, listingID, idempotencyKey string) (*entity.Purchase, *entity.Listing, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	l := &entity.Listing{}
	row := tx.QueryRow(ctx, `SELECT`+listingColumns+` FROM listings WHERE id = $1`, listingID)
	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, false, repository.ErrNotFound
		}
		return nil, nil, false, err
	}

	// Cost snapshot comes from the listing row read in this transaction,
	// keeping earned == sum(cost snapshots) regardless of the client body.
	p := &entity.Purchase{
		UserID:         buyerID,
		ProductID:      l.ID,
		ProductName:    l.Name,
		Cost:           l.Cost,
		IdempotencyKey: idempotencyKey,
	}

	row = tx.QueryRow(ctx, `
		INSERT INTO purchases (user_id, product_id, product_name, cost, idempotency_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id, purchase_date
	`, p.UserID, p.ProductID, p.ProductName, p.Cost, p.IdempotencyKey)

	if err := row.Scan(&p.ID, &p.PurchaseDate); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, false, err
		}
		// Retry of an already-applied purchase: hand back the stored entry
		// and the current listing without touching the aggregates.
		row = tx.QueryRow(ctx, `
			SELECT id, user_id, product_id, product_name, cost, purchase_date
			FROM purchases
			WHERE idempotency_key = $1
		`, idempotencyKey)
		if err := row.Scan(&p.ID, &p.UserID, &p.ProductID, &p.ProductName, &p.Cost, &p.PurchaseDate); err != nil {
			return nil, nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, nil, false, err
		}
		return p, l, false, nil
	}

	row = tx.QueryRow(ctx, `
		UPDATE listings
		SET total_sold = total_sold + 1, earned = earned + $2
		WHERE id = $1
		RETURNING `+listingColumns, l.ID, p.Cost)
	if err := scanListing(row, l); err != nil {
		return nil, nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, false, err
	}
	return p, l, true, nil
}

var _ repository.PurchaseRepository = (*PurchaseRepository)(nil)
