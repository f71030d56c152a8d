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

func TestCreateListingValidation(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signupAndLogin(t, "seller", "seller@example.com")

	// Missing nested address fields must be rejected.
	w := app.do(t, http.MethodPost, "/api/innovations", gin.H{
		"name":        "Widget",
		"cost":        100,
		"description": "thing",
		"upiId":       "seller@upi",
		"itemImage":   "https://img.example.com/x.png",
		"address":     gin.H{"street": "12 Maker Lane"},
		"contact":     gin.H{"phone": "+91 98765 43210"},
	}, authHeaders(token))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Zero cost is invalid.
	w = app.do(t, http.MethodPost, "/api/innovations", gin.H{
		"name":        "Widget",
		"cost":        0,
		"description": "thing",
		"upiId":       "seller@upi",
		"itemImage":   "https://img.example.com/x.png",
		"address": gin.H{
			"street": "12 Maker Lane", "city": "Pune", "state": "MH",
			"zipCode": "411001", "country": "India",
		},
		"contact": gin.H{"phone": "+91 98765 43210"},
	}, authHeaders(token))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestCreateAndListListings(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, otherToken := app.signupAndLogin(t, "other", "other@example.com")

	l := app.createListing(t, sellerToken, "Solar charger", 499)
	assert.Equal(t, int64(0), l.TotalSold)
	assert.Equal(t, 0.0, l.Earned)

	// Owner sees it in their list.
	w := app.do(t, http.MethodGet, "/api/innovations", nil, authHeaders(sellerToken))
	require.Equal(t, http.StatusOK, w.Code)
	var mine []entity.ListingSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, l.ID, mine[0].ID)

	// The other seller's list is empty.
	w = app.do(t, http.MethodGet, "/api/innovations", nil, authHeaders(otherToken))
	require.Equal(t, http.StatusOK, w.Code)
	var theirs []entity.ListingSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &theirs))
	assert.Empty(t, theirs)

	// The public feed has it without auth.
	w = app.do(t, http.MethodGet, "/api/innovations1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Solar charger", all[0].Name)
}

func TestPublicFeedNewestFirst(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signupAndLogin(t, "seller", "seller@example.com")

	app.createListing(t, token, "First", 10)
	app.createListing(t, token, "Second", 20)

	w := app.do(t, http.MethodGet, "/api/innovations1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Second", all[0].Name)
	assert.Equal(t, "First", all[1].Name)
}

func TestUpdateListing(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, strangerToken := app.signupAndLogin(t, "stranger", "stranger@example.com")

	l := app.createListing(t, sellerToken, "Widget", 100)

	// Stranger gets a 403; the row is untouched.
	w := app.do(t, http.MethodPut, "/api/innovations/"+l.ID, gin.H{"name": "Hijacked"}, authHeaders(strangerToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized to update this innovation")

	// Owner's partial update touches only the provided fields.
	w = app.do(t, http.MethodPut, "/api/innovations/"+l.ID, gin.H{"cost": 120.5}, authHeaders(sellerToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Innovation entity.Listing `json:"innovation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 120.5, resp.Innovation.Cost)
	assert.Equal(t, "Widget", resp.Innovation.Name)

	// Unknown id is a 404.
	w = app.do(t, http.MethodPut, "/api/innovations/no-such-id", gin.H{"name": "x"}, authHeaders(sellerToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteListing(t *testing.T) {
	app := newTestApp(t)
	_, sellerToken := app.signupAndLogin(t, "seller", "seller@example.com")
	_, strangerToken := app.signupAndLogin(t, "stranger", "stranger@example.com")

	l := app.createListing(t, sellerToken, "Widget", 100)

	// Stranger's delete is indistinguishable from a missing listing.
	w := app.do(t, http.MethodDelete, "/api/innovations/"+l.ID, nil, authHeaders(strangerToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Innovation not found or not authorized to delete")

	w = app.do(t, http.MethodDelete, "/api/innovations/"+l.ID, nil, authHeaders(sellerToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Innovation deleted successfully")

	// Second delete of the same id: 404 again.
	w = app.do(t, http.MethodDelete, "/api/innovations/"+l.ID, nil, authHeaders(sellerToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSalesEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signupAndLogin(t, "seller", "seller@example.com")
	l := app.createListing(t, token, "Widget", 100)

	w := app.do(t, http.MethodPatch, "/api/innovations/"+l.ID+"/update-sales", gin.H{"cost": 100}, authHeaders(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.TotalSold)
	assert.Equal(t, 100.0, got.Earned)

	w = app.do(t, http.MethodPatch, "/api/innovations/no-such-id/update-sales", gin.H{"cost": 100}, authHeaders(token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodPatch, "/api/innovations/"+l.ID+"/update-sales", gin.H{"cost": -5}, authHeaders(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
