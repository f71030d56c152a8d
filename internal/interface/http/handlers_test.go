package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/innomart/innomart-server/internal/application"
	"github.com/innomart/innomart-server/internal/domain/entity"
	repo "github.com/innomart/innomart-server/internal/domain/repository"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/helpers"
	"github.com/innomart/innomart-server/pkg/validation"
)

var setupOnce sync.Once

// memStore backs all repositories for handler tests. One lock keeps the
// purchase path transactional, matching the Postgres implementation.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	listings  map[string]*entity.Listing
	purchases []entity.Purchase
	byKey     map[string]*entity.Purchase
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*entity.User{},
		listings: map[string]*entity.Listing{},
		byKey:    map[string]*entity.Purchase{},
	}
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, other := range r.s.users {
		if other.Email == u.Email && other.ID != u.ID {
			return repo.ErrDuplicateEmail
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

type memListingRepo struct{ s *memStore }

func (r memListingRepo) Create(_ context.Context, l *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r memListingRepo) GetByID(_ context.Context, id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memListingRepo) ListAll(_ context.Context) ([]entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Listing, 0, len(r.s.listings))
	for _, l := range r.s.listings {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memListingRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.ListingSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ListingSummary
	for _, l := range r.s.listings {
		if l.UserID == ownerID {
			out = append(out, entity.ListingSummary{
				ID:          l.ID,
				Name:        l.Name,
				Cost:        l.Cost,
				Description: l.Description,
				ItemImage:   l.ItemImage,
				TotalSold:   l.TotalSold,
			})
		}
	}
	return out, nil
}

func (r memListingRepo) Update(_ context.Context, id string, upd repo.ListingUpdate) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if upd.Name != nil {
		l.Name = *upd.Name
	}
	if upd.Cost != nil {
		l.Cost = *upd.Cost
	}
	if upd.Description != nil {
		l.Description = *upd.Description
	}
	cp := *l
	return &cp, nil
}

func (r memListingRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok || l.UserID != ownerID {
		return repo.ErrNotFound
	}
	delete(r.s.listings, id)
	return nil
}

func (r memListingRepo) IncrementSales(_ context.Context, id string, costDelta float64) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	l.TotalSold++
	l.Earned += costDelta
	cp := *l
	return &cp, nil
}

func (r memListingRepo) SetItemImage(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return repo.ErrNotFound
	}
	l.ItemImage = url
	return nil
}

type memPurchaseRepo struct{ s *memStore }

func (r memPurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	p.PurchaseDate = time.Now()
	r.s.purchases = append(r.s.purchases, *p)
	return nil
}

func (r memPurchaseRepo) ListByBuyer(_ context.Context, buyerID string) ([]entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.PurchaseOrder{}
	for _, p := range r.s.purchases {
		if p.UserID != buyerID {
			continue
		}
		o := entity.PurchaseOrder{Purchase: p}
		if l, ok := r.s.listings[p.ProductID]; ok {
			addr := l.Address
			contact := l.Contact
			o.SellerAddress = &addr
			o.SellerContact = &contact
		}
		out = append(out, o)
	}
	return out, nil
}

func (r memPurchaseRepo) CompletePurchase(_ context.Context, buyerID, listingID, idempotencyKey string) (*entity.Purchase, *entity.Listing, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[listingID]
	if !ok {
		return nil, nil, false, repo.ErrNotFound
	}
	if prev, seen := r.s.byKey[idempotencyKey]; seen {
		cp := *prev
		lcp := *l
		return &cp, &lcp, false, nil
	}
	p := entity.Purchase{
		ID:             uuid.NewString(),
		UserID:         buyerID,
		ProductID:      l.ID,
		ProductName:    l.Name,
		Cost:           l.Cost,
		IdempotencyKey: idempotencyKey,
		PurchaseDate:   time.Now(),
	}
	l.TotalSold++
	l.Earned += l.Cost
	lcp := *l
	r.s.purchases = append(r.s.purchases, p)
	r.s.byKey[idempotencyKey] = &p
	return &p, &lcp, true, nil
}

// testApp wires handlers over the in-memory store with the same routes and
// middleware the real router registers.
type testApp struct {
	Router *gin.Engine
	Store  *memStore
	JWT    *helpers.JWTManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	store := newMemStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	userSvc := application.NewUserService(memUserRepo{store}, jwt, nil)
	catalogSvc := application.NewCatalogService(memListingRepo{store}, nil, "", nil, "", nil)
	purchaseSvc := application.NewPurchaseService(memPurchaseRepo{store}, memUserRepo{store}, nil, nil, false)

	userH := NewUserHandler(userSvc, nil)
	listingH := NewListingHandler(catalogSvc, nil)
	purchaseH := NewPurchaseHandler(purchaseSvc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/signup", userH.Signup)
	api.POST("/login", userH.Login)
	api.GET("/innovations1", listingH.ListAllPublic)

	auth := api.Group("/")
	auth.Use(middleware.Auth(jwt))
	auth.GET("/user", userH.GetUser)
	auth.PUT("/settings/profile", userH.UpdateProfile)
	auth.PUT("/settings/change-password", userH.ChangePassword)
	auth.POST("/innovations", listingH.Create)
	auth.GET("/innovations", listingH.ListMine)
	auth.PUT("/innovations/:id", listingH.Update)
	auth.DELETE("/innovations/:id", listingH.Delete)
	auth.PATCH("/innovations/:id/update-sales", listingH.UpdateSales)
	auth.POST("/innovations/:id/purchase", purchaseH.Complete)
	auth.POST("/purchases", purchaseH.Record)
	auth.GET("/purchases", purchaseH.Orders)

	return &testApp{Router: r, Store: store, JWT: jwt}
}

func (a *testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// signupAndLogin registers a fresh account and returns its id and token.
func (a *testApp) signupAndLogin(t *testing.T, username, email string) (string, string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/signup", gin.H{
		"username": username,
		"email":    email,
		"dob":      "1998-07-12",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/login", gin.H{
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, resp.Token
}

// createListing posts a valid listing and returns its decoded body.
func (a *testApp) createListing(t *testing.T, token, name string, cost float64) entity.Listing {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/innovations", gin.H{
		"name":        name,
		"cost":        cost,
		"description": "a useful gadget",
		"upiId":       "seller@upi",
		"itemImage":   "https://img.example.com/x.png",
		"address": gin.H{
			"street":  "12 Maker Lane",
			"city":    "Pune",
			"state":   "Maharashtra",
			"zipCode": "411001",
			"country": "India",
		},
		"contact": gin.H{"phone": "+91 98765 43210"},
	}, authHeaders(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var l entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	require.NotEmpty(t, l.ID)
	return l
}
