package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CurrencyBTC = "BTC"
	CurrencyETH = "ETH"
)

// Verification is a public request to have a transaction checked.
type Verification struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Email              string    `db:"email" json:"email"`
	Currency           string    `db:"currency" json:"currency"`
	TransactionAddress string    `db:"transaction_address" json:"transaction_address"`
	TransactionDate    time.Time `db:"transaction_date" json:"transaction_date"`
	Request            string    `db:"request" json:"request"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

func ValidCurrency(c string) bool {
	return c == CurrencyBTC || c == CurrencyETH
}
