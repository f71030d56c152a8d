package entity

import (
	"time"
)

// Purchase is an immutable ledger entry for one completed purchase.
// ProductName and Cost are snapshots taken at purchase time so history
// survives later edits or deletion of the listing.
type Purchase struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"` // buyer
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	Cost           float64   `json:"cost"`
	IdempotencyKey string    `json:"-"`
	PurchaseDate   time.Time `json:"purchaseDate"`
}

// PurchaseOrder is a purchase joined with the seller's address and contact
// for the order-history view. Seller fields are nil when the listing has
// since been deleted.
type PurchaseOrder struct {
	Purchase
	SellerAddress *Address `json:"address,omitempty"`
	SellerContact *Contact `json:"contact,omitempty"`
}
