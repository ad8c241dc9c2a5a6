package catalog

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vitalvas/swagdoc/swagger"
)

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	StatusDraft    ProductStatus = "draft"
	StatusActive   ProductStatus = "active"
	StatusArchived ProductStatus = "archived"
)

func (ProductStatus) EnumMembers() []swagger.EnumMember {
	return []swagger.EnumMember{
		{Name: "Draft", Value: StatusDraft},
		{Name: "Active", Value: StatusActive},
		{Name: "Archived", Value: StatusArchived},
	}
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus int32

const (
	OrderPending OrderStatus = iota
	OrderPaid
	OrderShipped
	OrderCancelled
)

func (OrderStatus) EnumMembers() []swagger.EnumMember {
	return []swagger.EnumMember{
		{Name: "Pending", Value: OrderPending},
		{Name: "Paid", Value: OrderPaid},
		{Name: "Shipped", Value: OrderShipped},
		{Name: "Cancelled", Value: OrderCancelled},
	}
}

// Product is an item offered in the catalog.
type Product struct {
	ID          uuid.UUID         `json:"id" swagger:"readOnly"`
	SKU         string            `json:"sku" validate:"required,max=32" swagger:"description=Stock keeping unit,pattern=^[A-Z0-9-]+$"`
	Name        string            `json:"name" validate:"required,min=1,max=128"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"required,len=3"`
	Status      ProductStatus     `json:"status"`
	Tags        []string          `json:"tags,omitempty" validate:"max=10"`
	CategoryID  int64             `json:"categoryId,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" swagger:"readOnly"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty" swagger:"readOnly"`
}

// NewProduct is the writable part of a product.
type NewProduct struct {
	SKU         string            `json:"sku" validate:"required,max=32" swagger:"pattern=^[A-Z0-9-]+$"`
	Name        string            `json:"name" validate:"required,min=1,max=128"`
	Description string            `json:"description,omitempty" validate:"max=4096"`
	Price       float64           `json:"price" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"required,len=3,uppercase"`
	Status      ProductStatus     `json:"status" validate:"omitempty,oneof=draft active archived"`
	Tags        []string          `json:"tags,omitempty" validate:"max=10,dive,required"`
	CategoryID  int64             `json:"categoryId,omitempty" validate:"gte=0"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// ProductQuery filters the product list.
type ProductQuery struct {
	Status     ProductStatus `schema:"status"`
	Tags       []string      `schema:"tag" swagger:"description=Match any of the tags"`
	CategoryID int64         `schema:"category"`
	Limit      int32         `schema:"limit" validate:"omitempty,min=1,max=100" swagger:"default=20"`
	Offset     int32         `schema:"offset" validate:"gte=0"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int   `json:"total"`
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

// Category is a node of the category tree.
type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name" validate:"required"`
	Slug     string     `json:"slug"`
	Children []Category `json:"children,omitempty"`
}

// Payment is how an order is paid. The method property selects the
// concrete payment type.
type Payment interface {
	PaymentMethod() string
}

// CardPayment is a payment by credit or debit card.
type CardPayment struct {
	Method string `json:"method" validate:"required"`
	Brand  string `json:"brand" validate:"required,oneof=visa mastercard amex"`
	Last4  string `json:"last4" validate:"required,len=4,numeric"`
}

func (CardPayment) PaymentMethod() string { return "card" }

// BankTransferPayment is a payment by bank transfer.
type BankTransferPayment struct {
	Method    string `json:"method" validate:"required"`
	IBAN      string `json:"iban" validate:"required,min=15,max=34,alphanum"`
	Reference string `json:"reference,omitempty" validate:"max=140"`
}

func (BankTransferPayment) PaymentMethod() string { return "bank_transfer" }

// Discount lowers the total of an order.
type Discount struct {
	Type string `json:"type" validate:"required"`
	Code string `json:"code,omitempty"`
}

// PercentDiscount takes a percentage off the order total.
type PercentDiscount struct {
	Discount
	Percent float64 `json:"percent" validate:"required,gt=0,lte=100"`
}

// FixedDiscount takes a fixed amount off the order total.
type FixedDiscount struct {
	Discount
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// OrderLine is one product of an order.
type OrderLine struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,min=1,max=1000"`
}

// Order is a placed order.
type Order struct {
	ID        uuid.UUID   `json:"id" swagger:"readOnly"`
	Lines     []OrderLine `json:"lines" validate:"required"`
	Status    OrderStatus `json:"status"`
	Payment   Payment     `json:"payment" validate:"required"`
	Discount  *Discount   `json:"discount,omitempty"`
	Total     float64     `json:"total"`
	Currency  string      `json:"currency"`
	CreatedAt time.Time   `json:"createdAt" swagger:"readOnly"`
}

// NewOrder places an order.
type NewOrder struct {
	Lines   []OrderLine `json:"lines" validate:"required,min=1,dive"`
	Payment Payment     `json:"payment" validate:"required"`
}

func (o *NewOrder) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lines   []OrderLine     `json:"lines"`
		Payment json.RawMessage `json:"payment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Lines = raw.Lines
	o.Payment = nil
	if len(raw.Payment) == 0 || string(raw.Payment) == "null" {
		return nil
	}

	payment, err := decodePayment(raw.Payment)
	if err != nil {
		return err
	}
	o.Payment = payment
	return nil
}

func decodePayment(data []byte) (Payment, error) {
	var head struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Method {
	case CardPayment{}.PaymentMethod():
		var p CardPayment
		err := json.Unmarshal(data, &p)
		return p, err
	case BankTransferPayment{}.PaymentMethod():
		var p BankTransferPayment
		err := json.Unmarshal(data, &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown payment method %q", head.Method)
	}
}

// APIError is the body of every error response.
type APIError struct {
	Message string       `json:"message" validate:"required"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError reports one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
