package contract

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ConflictWindow is the interval around a requested appointment instant in
// which an existing confirmed appointment blocks a new booking.
const ConflictWindow = 30 * time.Minute

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Description string          `bun:"description" json:"description,omitempty"`
	Price       decimal.Decimal `bun:"price,notnull" json:"price"`
	Stock       int             `bun:"stock,notnull,default:0" json:"stock"`
	Category    string          `bun:"category,notnull" json:"category"`
	ImageURL    string          `bun:"image_url" json:"imageUrl,omitempty"`
	Active      bool            `bun:"active,notnull,default:true" json:"active"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID           int64             `bun:"id,pk,autoincrement" json:"id"`
	CustomerName string            `bun:"customer_name,notnull" json:"customerName"`
	Date         time.Time         `bun:"date,notnull" json:"date"`
	Status       AppointmentStatus `bun:"status,notnull,default:'confirmed'" json:"status"`
	ContactInfo  string            `bun:"contact_info,notnull" json:"contactInfo"`
	Notes        string            `bun:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem captures the unit price at order time; it is not a live
// reference to the product's current price.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID           int64           `bun:"id,pk,autoincrement" json:"id"`
	CustomerName string          `bun:"customer_name,notnull" json:"customerName"`
	Status       OrderStatus     `bun:"status,notnull,default:'pending'" json:"status"`
	TotalAmount  decimal.Decimal `bun:"total_amount,notnull" json:"totalAmount"`
	Items        []OrderItem     `bun:"items,type:jsonb,notnull" json:"items"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

/* ------------------------------ Actions ------------------------------ */

// ActionType enumerates the closed set of capabilities the resolver may
// request. Dispatch is a total mapping over this set.
type ActionType string

const (
	ActionCheckAvailability ActionType = "check_availability"
	ActionBookAppointment   ActionType = "book_appointment"
	ActionCreateOrder       ActionType = "create_order"
)

type CheckAvailabilityArgs struct {
	Date string `json:"date"`
}

type BookAppointmentArgs struct {
	CustomerName string `json:"customerName"`
	Date         string `json:"date"`
	ContactInfo  string `json:"contactInfo"`
}

type OrderItemArgs struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

type CreateOrderArgs struct {
	CustomerName string          `json:"customerName"`
	Items        []OrderItemArgs `json:"items"`
}

// ActionRequest is a tagged variant: exactly the field matching Type is set.
type ActionRequest struct {
	Type              ActionType             `json:"type"`
	CheckAvailability *CheckAvailabilityArgs `json:"checkAvailability,omitempty"`
	BookAppointment   *BookAppointmentArgs   `json:"bookAppointment,omitempty"`
	CreateOrder       *CreateOrderArgs       `json:"createOrder,omitempty"`
}

// Resolution is the resolver's output: either a direct textual reply or a
// single action request, never both.
type Resolution struct {
	Reply  string
	Action *ActionRequest
}

/* ------------------------------ Outcomes ------------------------------ */

type HintType string

const (
	HintAskTime            HintType = "ask_time"
	HintConfirmAppointment HintType = "confirm_appointment"
	HintConfirmOrder       HintType = "confirm_order"
	HintCheckStock         HintType = "check_stock"
	HintNone               HintType = "none"
)

// ActionHint lets the presentation layer react to an outcome without
// re-parsing the spoken sentence.
type ActionHint struct {
	Type HintType `json:"type"`
	Data any      `json:"data,omitempty"`
}

type Outcome struct {
	TextResponse string      `json:"textResponse"`
	Action       *ActionHint `json:"action,omitempty"`
}

/* -------------------------- Execution results ------------------------- */

// Availability is the read-only answer to check_availability. Spoken keeps
// the date exactly as the caller phrased it so the reply can echo it back.
type Availability struct {
	Date      time.Time
	Spoken    string
	Available bool
}

// ExecResult is a tagged variant over the three handler outcomes.
type ExecResult struct {
	Availability *Availability
	Booking      *Appointment
	Receipt      *Order
}

// StockLine is one requested reservation against the inventory ledger.
type StockLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
}

/* ------------------------------ Patches ------------------------------ */

// Patch structs carry admin-surface partial updates; nil fields are left
// untouched.

type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type OrderPatch struct {
	CustomerName *string      `json:"customerName,omitempty"`
	Status       *OrderStatus `json:"status,omitempty"`
}

type AppointmentPatch struct {
	CustomerName *string            `json:"customerName,omitempty"`
	Date         *time.Time         `json:"date,omitempty"`
	Status       *AppointmentStatus `json:"status,omitempty"`
	ContactInfo  *string            `json:"contactInfo,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
}
