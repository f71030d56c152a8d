package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/domain/entity"
	repo "github.com/innomart/innomart-server/internal/domain/repository"
	"github.com/innomart/innomart-server/pkg/helpers"
)

// CatalogService owns listing CRUD, the legacy sales-update path, item
// image uploads and the search index. GCS and Elasticsearch are optional;
// nil clients disable the related features.
type CatalogService struct {
	Repo            repo.ListingRepository
	GCS             *storage.Client
	GCSBucket       string
	ES              *elasticsearch.Client
	ESListingsIndex string
	Logger          *logrus.Logger
}

func NewCatalogService(r repo.ListingRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Repo:            r,
		GCS:             gcs,
		GCSBucket:       gcsBucket,
		ES:              es,
		ESListingsIndex: esIndex,
		Logger:          logger,
	}
}

type CreateListingInput struct {
	Name        string
	Cost        float64
	Description string
	UpiID       string
	Address     entity.Address
	Contact     entity.Contact
	ItemImage   string
}

func (s *CatalogService) Create(ctx context.Context, ownerID string, in CreateListingInput) (*entity.Listing, error) {
	l := &entity.Listing{
		Name:        in.Name,
		Cost:        in.Cost,
		Description: in.Description,
		UserID:      ownerID,
		UpiID:       in.UpiID,
		Address:     in.Address,
		Contact:     in.Contact,
		ItemImage:   in.ItemImage,
	}
	if err := s.Repo.Create(ctx, l); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("owner_id", ownerID).Error("create listing failed")
		}
		return nil, err
	}
	s.indexListing(ctx, l)
	return l, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListAll is the public catalog, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]entity.Listing, error) {
	return s.Repo.ListAll(ctx)
}

func (s *CatalogService) ListMine(ctx context.Context, ownerID string) ([]entity.ListingSummary, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Update applies a partial update after verifying the caller owns the
// listing. Ownership is checked against the stored row, never a
// client-supplied owner field.
func (s *CatalogService) Update(ctx context.Context, id, actorID string, upd repo.ListingUpdate) (*entity.Listing, error) {
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actorID {
		return nil, ErrForbidden
	}
	updated, err := s.Repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.indexListing(ctx, updated)
	return updated, nil
}

// Delete removes an owned listing. An absent listing and a foreign one are
// reported identically as ErrNotFound.
func (s *CatalogService) Delete(ctx context.Context, id, actorID string) error {
	if err := s.Repo.Delete(ctx, id, actorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.deindexListing(ctx, id)
	return nil
}

// UpdateSales is the legacy sales-update operation: one atomic increment of
// totalSold/earned at the store.
func (s *CatalogService) UpdateSales(ctx context.Context, id string, cost float64) (*entity.Listing, error) {
	l, err := s.Repo.IncrementSales(ctx, id, cost)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// UploadItemImage stores a listing photo in GCS and points item_image at
// its public URL. Owner-only.
func (s *CatalogService) UploadItemImage(ctx context.Context, id, actorID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("image storage not configured")
	}
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if l.UserID != actorID {
		return "", ErrForbidden
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("items", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetItemImage(ctx, id, url); err != nil {
		return "", err
	}
	l.ItemImage = url
	s.indexListing(ctx, l)
	return url, nil
}

// ListingDoc is the search-index projection of a listing.
type ListingDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	ItemImage   string  `json:"item_image"`
	CreatedAt   string  `json:"created_at"`
}

// Search runs a multi-match query over listing names and descriptions.
func (s *CatalogService) Search(ctx context.Context, q string) ([]ListingDoc, error) {
	if s.ES == nil || s.ESListingsIndex == "" {
		return nil, errors.New("search not configured")
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": 25,
	}
	b, _ := json.Marshal(body)
	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.ESListingsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source ListingDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	docs := make([]ListingDoc, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		docs = append(docs, h.Source)
	}
	return docs, nil
}

// indexListing is best effort: search lags rather than failing writes.
func (s *CatalogService) indexListing(ctx context.Context, l *entity.Listing) {
	if s.ES == nil || s.ESListingsIndex == "" {
		return
	}
	doc := ListingDoc{
		ID:          l.ID,
		Name:        l.Name,
		Cost:        l.Cost,
		Description: l.Description,
		ItemImage:   l.ItemImage,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESListingsIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("es index failed")
		}
		return
	}
	_ = res.Body.Close()
}

func (s *CatalogService) deindexListing(ctx context.Context, id string) {
	if s.ES == nil || s.ESListingsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESListingsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
