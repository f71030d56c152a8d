package entity

import (
	"time"
)

// Address is the seller's postal address attached to a listing. Every field
// is required at creation time; order history joins it back onto purchases.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Contact carries the seller's contact details for a listing.
type Contact struct {
	Phone string `json:"phone"`
}

// Listing is a seller's product entry ("innovation" in the app's parlance).
// TotalSold and Earned are derived-but-stored aggregates; they move only
// through atomic increments at the storage layer, never through
// read-modify-write in application code.
type Listing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Cost        float64   `json:"cost"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	UpiID       string    `json:"upiId"`
	TotalSold   int64     `json:"totalSold"`
	Earned      float64   `json:"earned"`
	Address     Address   `json:"address"`
	Contact     Contact   `json:"contact"`
	ItemImage   string    `json:"itemImage"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListingSummary is the owner-facing projection returned by the
// "my listings" view.
type ListingSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	ItemImage   string  `json:"itemImage"`
	TotalSold   int64   `json:"totalSold"`
}
