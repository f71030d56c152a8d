package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innomart/innomart-server/internal/domain/entity"
)

func TestCompletePurchaseEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	buyerID, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Purchase   entity.Purchase `json:"purchase"`
		Innovation entity.Listing  `json:"innovation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, buyerID, resp.Purchase.UserID)
	assert.Equal(t, l.ID, resp.Purchase.ProductID)
	assert.Equal(t, 499.0, resp.Purchase.Cost)
	assert.Equal(t, int64(1), resp.Innovation.TotalSold)
	assert.Equal(t, 499.0, resp.Innovation.Earned)
}

func TestCompletePurchaseRetrySameKey(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code)
	var first struct {
		Purchase entity.Purchase `json:"purchase"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	// A retry after a lost response must not double-count.
	w = app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code)
	var second struct {
		Purchase   entity.Purchase `json:"purchase"`
		Innovation entity.Listing  `json:"innovation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.Purchase.ID, second.Purchase.ID)
	assert.Equal(t, int64(1), second.Innovation.TotalSold)
	assert.Equal(t, 499.0, second.Innovation.Earned)
}

func TestCompletePurchaseKeyFromHeader(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	headers := authHeaders(buyerToken)
	headers["Idempotency-Key"] = "hdr-key-1"
	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase", nil, headers)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCompletePurchaseMissingKey(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase", nil, authHeaders(buyerToken))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency key is required")
}

func TestCompletePurchaseUnknownListing(t *testing.T) {
	app := newTestApp(t)
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	w := app.do(t, http.MethodPost, "/api/innovations/no-such-id/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Innovation not found")
}

func TestRecordPurchaseEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Widget", 100)

	w := app.do(t, http.MethodPost, "/api/purchases", gin.H{
		"productId":   l.ID,
		"productName": l.Name,
		"cost":        l.Cost,
	}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Purchase recorded successfully")

	// The legacy append leaves the aggregates alone.
	w = app.do(t, http.MethodGet, "/api/innovations1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, int64(0), all[0].TotalSold)
}

func TestOrdersEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/api/purchases", nil, authHeaders(buyerToken))
	require.Equal(t, http.StatusOK, w.Code)
	var orders []entity.PurchaseOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Solar charger", orders[0].ProductName)
	require.NotNil(t, orders[0].SellerAddress)
	assert.Equal(t, "Pune", orders[0].SellerAddress.City)
	require.NotNil(t, orders[0].SellerContact)

	// Seller history stays separate from the buyer's.
	w = app.do(t, http.MethodGet, "/api/purchases", nil, authHeaders(sellerToken))
	require.Equal(t, http.StatusOK, w.Code)
	var sellerOrders []entity.PurchaseOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sellerOrders))
	assert.Empty(t, sellerOrders)
}

func TestOrdersAfterListingDeleted(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, buyerToken := app.signupAndLogin(t, "buyer", "buyer@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)

	w := app.do(t, http.MethodPost, "/api/innovations/"+l.ID+"/purchase",
		gin.H{"idempotencyKey": "order-1"}, authHeaders(buyerToken))
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodDelete, "/api/innovations/"+l.ID, nil, authHeaders(sellerToken))
	require.Equal(t, http.StatusOK, w.Code)

	// The ledger entry survives; seller details are simply absent.
	w = app.do(t, http.MethodGet, "/api/purchases", nil, authHeaders(buyerToken))
	require.Equal(t, http.StatusOK, w.Code)
	var orders []entity.PurchaseOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Solar charger", orders[0].ProductName)
	assert.Nil(t, orders[0].SellerAddress)
}
