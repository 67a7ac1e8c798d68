package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	CurrencyINR           = "INR"
	PaymentMethodRazorpay = "razorpay"
	PaymentRecordSuccess  = "success"
)

// Payment is the ledger row written once an order is paid.
type Payment struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       string          `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(10);not null" json:"currency"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionID string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"transaction_id"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	PaymentData   datatypes.JSON  `gorm:"type:jsonb" json:"payment_data"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}
