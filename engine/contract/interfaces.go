package contract

import (
	"context"
	"time"

	sessionx "github.com/voxdesk/voxdesk/engine/session"
)

// IntentResolver bridges a free-form utterance to either a direct reply or a
// single action request. Implementations must be bounded by a timeout and
// report ErrServiceUnavailable rather than hanging.
type IntentResolver interface {
	Resolve(ctx context.Context, utterance string, history []sessionx.Turn) (Resolution, error)
}

// ActionExecutor applies a resolved action against the ledgers, producing a
// committed record or a taxonomy error.
type ActionExecutor interface {
	Execute(ctx context.Context, action *ActionRequest) (ExecResult, error)
}

// InventoryLedger owns product stock. ReserveStock is atomic and
// all-or-nothing: either every line is decremented or none is, and stock
// never goes negative. Returned items carry the unit price captured at
// reservation time.
type InventoryLedger interface {
	ActiveProducts(ctx context.Context) ([]Product, error)
	ProductByID(ctx context.Context, id int64) (*Product, error)
	// ProductByName matches the display name case-insensitively and exactly.
	// Missing products report ErrNotFound.
	ProductByName(ctx context.Context, name string) (*Product, error)
	ReserveStock(ctx context.Context, lines []StockLine) ([]OrderItem, error)
}

// SchedulingLedger owns the appointment calendar. BookSlot re-checks the
// conflict window and inserts within one transaction; a confirmed
// appointment within ConflictWindow of the requested instant fails the call
// with ErrSlotConflict.
type SchedulingLedger interface {
	ConfirmedBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	BookSlot(ctx context.Context, appt *Appointment) error
}

// OrderStore persists committed orders. CreateOrder must only be called
// after the line items were reserved against the InventoryLedger.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *Order) error
	Orders(ctx context.Context) ([]Order, error)
	UpdateOrder(ctx context.Context, id int64, patch OrderPatch) (*Order, error)
}

// ProductStore is the administrative surface over the catalog. It performs
// no business logic beyond persistence.
type ProductStore interface {
	Products(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// AppointmentStore is the administrative surface over the calendar. Direct
// creation bypasses the conflict check; the voice path books through
// SchedulingLedger.BookSlot instead.
type AppointmentStore interface {
	Appointments(ctx context.Context) ([]Appointment, error)
	CreateAppointment(ctx context.Context, appt *Appointment) error
	UpdateAppointment(ctx context.Context, id int64, patch AppointmentPatch) (*Appointment, error)
}
