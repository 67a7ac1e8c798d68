package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPrinting  OrderStatus = "printing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPrinting,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal is a display hint only; nothing stops an admin from moving a terminal order.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

const DefaultDeliveryAddress = "To be confirmed"

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          *string         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FullName        string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email           string          `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone           string          `gorm:"type:varchar(50);not null" json:"phone"`
	ServiceType     string          `gorm:"type:varchar(100);not null" json:"service_type"`
	NumberOfPages   *int            `json:"number_of_pages,omitempty"`
	PaperType       string          `gorm:"type:varchar(50);not null" json:"paper_type"`
	IsEmergency     bool            `gorm:"not null;default:false" json:"is_emergency"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	FileURL         *string         `gorm:"type:text" json:"file_url,omitempty"`
	FileName        *string         `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileSize        *int64          `json:"file_size,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	OrderStatus     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"order_status"`
	TransactionID   *string         `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	GatewayOrderID  *string         `gorm:"type:varchar(255)" json:"razorpay_order_id,omitempty"` // latest checkout
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}
