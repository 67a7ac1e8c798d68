package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrDisabled       = errors.New("payments are not configured")
	ErrInvalidPayload = errors.New("invalid gateway payload")
)

const CurrencyINR = "INR"

// GatewayOrder is the gateway-side order the checkout widget is opened with.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

// AmountInPaise converts a rupee amount to the smallest unit, rounding half up.
func AmountInPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	keyID         string
	keySecret     string
	webhookSecret string
	orders        orderCreator
}

func NewRazorpay(keyID, keySecret, webhookSecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		orders:        client.Order,
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

func (r *Razorpay) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return GatewayOrder{}, err
	}
	resp, err := r.orders.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": CurrencyINR,
		"receipt":  receipt,
		"notes":    map[string]interface{}{"order_id": receipt},
	}, nil)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: %w: missing id", ErrInvalidPayload)
	}
	return GatewayOrder{ID: id, Amount: amountPaise, Currency: CurrencyINR, Receipt: receipt}, nil
}

func (r *Razorpay) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, r.keySecret)
}

func (r *Razorpay) VerifyWebhookSignature(body []byte, signature string) bool {
	if r.webhookSecret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, r.webhookSecret)
}

// WebhookPayment is what the confirmation path needs from a webhook.
type WebhookPayment struct {
	Event          string
	OrderID        string // our order id
	GatewayOrderID string
	PaymentID      string
	AmountPaise    int64
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string          `json:"id"`
				OrderID string          `json:"order_id"`
				Amount  int64           `json:"amount"`
				Notes   json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity struct {
				ID      string `json:"id"`
				Receipt string `json:"receipt"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// ParseWebhook extracts the paid order from payment.captured and order.paid
// events. ok is false for other events.
func ParseWebhook(body []byte) (p WebhookPayment, ok bool, err error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return WebhookPayment{}, false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Event != "payment.captured" && env.Event != "order.paid" {
		return WebhookPayment{Event: env.Event}, false, nil
	}

	pay := env.Payload.Payment.Entity
	p = WebhookPayment{
		Event:          env.Event,
		GatewayOrderID: pay.OrderID,
		PaymentID:      pay.ID,
		AmountPaise:    pay.Amount,
	}
	if env.Payload.Order != nil {
		p.OrderID = env.Payload.Order.Entity.Receipt
	}
	if p.OrderID == "" {
		// notes is an object when set and an empty array otherwise
		var notes map[string]interface{}
		if json.Unmarshal(pay.Notes, &notes) == nil {
			p.OrderID, _ = notes["order_id"].(string)
		}
	}
	if p.PaymentID == "" || p.OrderID == "" {
		return p, false, fmt.Errorf("%w: missing payment or order id", ErrInvalidPayload)
	}
	return p, true, nil
}
