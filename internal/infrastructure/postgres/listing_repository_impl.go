package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innomart/innomart-server/internal/domain/entity"
	"github.com/innomart/innomart-server/internal/domain/repository"
)

const listingColumns = `
	id, name, cost, description, user_id, upi_id, total_sold, earned,
	address_street, address_city, address_state, address_zip, address_country,
	contact_phone, item_image, created_at`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func scanListing(row pgx.Row, l *entity.Listing) error {
	return row.Scan(
		&l.ID, &l.Name, &l.Cost, &l.Description, &l.UserID, &l.UpiID,
		&l.TotalSold, &l.Earned,
		&l.Address.Street, &l.Address.City, &l.Address.State,
		&l.Address.ZipCode, &l.Address.Country,
		&l.Contact.Phone, &l.ItemImage, &l.CreatedAt,
	)
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (
			name, cost, description, user_id, upi_id,
			address_street, address_city, address_state, address_zip, address_country,
			contact_phone, item_image
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, total_sold, earned, created_at
	`, l.Name, l.Cost, l.Description, l.UserID, l.UpiID,
		l.Address.Street, l.Address.City, l.Address.State, l.Address.ZipCode, l.Address.Country,
		l.Contact.Phone, l.ItemImage)

	return row.Scan(&l.ID, &l.TotalSold, &l.Earned, &l.CreatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l := &entity.Listing{}
	row := r.pool.QueryRow(ctx, `SELECT`+listingColumns+` FROM listings WHERE id = $1`, id)
	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]entity.Listing, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+listingColumns+` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]entity.Listing, 0)
	for rows.Next() {
		var l entity.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.ListingSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, cost, description, item_image, total_sold
		FROM listings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.ListingSummary, 0)
	for rows.Next() {
		var s entity.ListingSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Cost, &s.Description, &s.ItemImage, &s.TotalSold); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ListingRepository) Update(ctx context.Context, id string, upd repository.ListingUpdate) (*entity.Listing, error) {
	// COALESCE keeps the stored value for absent fields, so a partial
	// payload never nulls anything out.
	l := &entity.Listing{}
	row := r.pool.QueryRow(ctx, `
		UPDATE listings
		SET name        = COALESCE($2::text, name),
		    cost        = COALESCE($3::numeric, cost),
		    description = COALESCE($4::text, description)
		WHERE id = $1
		RETURNING `+listingColumns, id, upd.Name, upd.Cost, upd.Description)

	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) Delete(ctx context.Context, id, ownerID string) error {
	// Ownership is part of the predicate: a foreign listing and a missing
	// one are indistinguishable to the caller.
	res, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) IncrementSales(ctx context.Context, id string, costDelta float64) (*entity.Listing, error) {
	// Single atomic add at the store; concurrent buyers all land.
	l := &entity.Listing{}
	row := r.pool.QueryRow(ctx, `
		UPDATE listings
		SET total_sold = total_sold + 1, earned = earned + $2
		WHERE id = $1
		RETURNING `+listingColumns, id, costDelta)

	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) SetItemImage(ctx context.Context, id, url string) error {
	res, err := r.pool.Exec(ctx, `UPDATE listings SET item_image = $2 WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
