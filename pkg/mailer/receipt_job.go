package mailer

import "time"

// ReceiptJob is the JSON payload put on the RabbitMQ queue after a
// completed purchase. The email worker renders and sends it.
type ReceiptJob struct {
	To           string    `json:"to"`
	Username     string    `json:"username"`
	ProductName  string    `json:"product_name"`
	Cost         string    `json:"cost"` // formatted with 2 decimal places
	PurchaseID   string    `json:"purchase_id"`
	PurchaseDate time.Time `json:"purchase_date"`
}
