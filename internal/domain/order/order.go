package order

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the order lifecycle state. Orders start as pending; the expected
// progression is pending -> paid -> delivered, with cancelled reachable from
// any non-terminal state. Transitions are overwrites, not an enforced machine.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status string against the four-value enum.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// LineItem is a snapshot of a product at order-creation time. Later catalog
// edits never retroactively alter historical orders.
type LineItem struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Order is an immutable record of a purchase, except for Status and UpdatedAt.
// Total sums buy-list subtotals only; the wish list is informational.
type Order struct {
	ID        string
	Code      string
	BuyList   []LineItem
	WishList  []LineItem
	Total     decimal.Decimal
	Status    Status
	ClientID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for orders. GetByCode returns the
// first match; codes are expected unique by construction but not enforced.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateCode produces a human-shareable order code: the creation timestamp
// in base 36 followed by 6 random base-36 characters, uppercased. Collisions
// are mitigated only by the search space; there is no retry loop.
func GenerateCode() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 36))

	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return strings.ToUpper(b.String())
}
