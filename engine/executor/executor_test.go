package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
	"github.com/voxdesk/voxdesk/storage/memstore"
)

func newTestExecutor(t *testing.T) (*Executor, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	exec, err := New(store, store, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return exec, store
}

func seedProduct(t *testing.T, store *memstore.Store, name, price string, stock int) *contractx.Product {
	t.Helper()
	product := &contractx.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "Widgets",
		Active:   true,
	}
	if err := store.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	return product
}

func TestCheckAvailabilityOpenSlot(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	res, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type:              contractx.ActionCheckAvailability,
		CheckAvailability: &contractx.CheckAvailabilityArgs{Date: "2026-09-01T10:00:00"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Availability == nil || !res.Availability.Available {
		t.Fatalf("expected available slot, got %+v", res.Availability)
	}
	if res.Availability.Spoken != "2026-09-01T10:00:00" {
		t.Fatalf("unexpected spoken date: %q", res.Availability.Spoken)
	}
}

func TestCheckAvailabilityConflictWithinWindow(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	booked := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if err := store.BookSlot(context.Background(), &contractx.Appointment{
		CustomerName: "Alice",
		Date:         booked,
		ContactInfo:  "alice@example.com",
	}); err != nil {
		t.Fatalf("BookSlot() error = %v", err)
	}

	// 20 minutes later falls inside the 30-minute conflict window.
	res, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type:              contractx.ActionCheckAvailability,
		CheckAvailability: &contractx.CheckAvailabilityArgs{Date: "2026-09-01T10:20:00"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Availability == nil || res.Availability.Available {
		t.Fatalf("expected conflict, got %+v", res.Availability)
	}
}

func TestCheckAvailabilityUnparseableDate(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type:              contractx.ActionCheckAvailability,
		CheckAvailability: &contractx.CheckAvailabilityArgs{Date: "whenever you like"},
	})
	if !errors.Is(err, contractx.ErrDateUnparseable) {
		t.Fatalf("error = %v, want ErrDateUnparseable", err)
	}
}

func TestBookAppointmentCreatesConfirmedRecord(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	res, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionBookAppointment,
		BookAppointment: &contractx.BookAppointmentArgs{
			CustomerName: "Bob",
			Date:         "2026-09-02T14:00:00",
			ContactInfo:  "555-0102",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Booking == nil {
		t.Fatal("expected a booking result")
	}
	if res.Booking.Status != contractx.AppointmentConfirmed {
		t.Fatalf("status = %s, want confirmed", res.Booking.Status)
	}
	if res.Booking.ID == 0 {
		t.Fatal("booking was not assigned an id")
	}

	appts, err := store.Appointments(context.Background())
	if err != nil {
		t.Fatalf("Appointments() error = %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}
}

func TestBookAppointmentUnparseableDateCreatesNothing(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionBookAppointment,
		BookAppointment: &contractx.BookAppointmentArgs{
			CustomerName: "Bob",
			Date:         "next blue moon",
			ContactInfo:  "555-0102",
		},
	})
	if !errors.Is(err, contractx.ErrDateUnparseable) {
		t.Fatalf("error = %v, want ErrDateUnparseable", err)
	}

	appts, _ := store.Appointments(context.Background())
	if len(appts) != 0 {
		t.Fatalf("expected no appointments, got %d", len(appts))
	}
}

func TestBookAppointmentRevalidatesConflictWindow(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	book := func() (contractx.ExecResult, error) {
		return exec.Execute(context.Background(), &contractx.ActionRequest{
			Type: contractx.ActionBookAppointment,
			BookAppointment: &contractx.BookAppointmentArgs{
				CustomerName: "Carol",
				Date:         "2026-09-03T09:00:00",
				ContactInfo:  "carol@example.com",
			},
		})
	}

	if _, err := book(); err != nil {
		t.Fatalf("first booking error = %v", err)
	}
	// The identical request again must now hit the conflict window instead
	// of silently double-booking.
	if _, err := book(); !errors.Is(err, contractx.ErrSlotConflict) {
		t.Fatalf("second booking error = %v, want ErrSlotConflict", err)
	}
}

func TestCreateOrderDecrementsStockAndCapturesPrices(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	widget := seedProduct(t, store, "Premium Widget", "29.99", 50)

	res, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionCreateOrder,
		CreateOrder: &contractx.CreateOrderArgs{
			CustomerName: "Dave",
			Items:        []contractx.OrderItemArgs{{ProductName: "premium widget", Quantity: 5}},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Receipt == nil {
		t.Fatal("expected an order receipt")
	}
	if res.Receipt.Status != contractx.OrderPending {
		t.Fatalf("status = %s, want pending", res.Receipt.Status)
	}
	if want := decimal.RequireFromString("149.95"); !res.Receipt.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", res.Receipt.TotalAmount, want)
	}

	after, err := store.ProductByID(context.Background(), widget.ID)
	if err != nil {
		t.Fatalf("ProductByID() error = %v", err)
	}
	if after.Stock != 45 {
		t.Fatalf("stock = %d, want 45", after.Stock)
	}
}

func TestCreateOrderCapturedPriceSurvivesLaterEdit(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	widget := seedProduct(t, store, "Premium Widget", "29.99", 50)

	res, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionCreateOrder,
		CreateOrder: &contractx.CreateOrderArgs{
			CustomerName: "Dave",
			Items:        []contractx.OrderItemArgs{{ProductName: "Premium Widget", Quantity: 2}},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	newPrice := decimal.RequireFromString("99.99")
	if _, err := store.UpdateProduct(context.Background(), widget.ID, contractx.ProductPatch{Price: &newPrice}); err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}

	orders, err := store.Orders(context.Background())
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if want := decimal.RequireFromString("29.99"); !orders[0].Items[0].Price.Equal(want) {
		t.Fatalf("captured price = %s, want %s", orders[0].Items[0].Price, want)
	}
	if res.Receipt.TotalAmount.Equal(newPrice) {
		t.Fatal("total must not track the edited price")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	gadget := seedProduct(t, store, "Super Gadget", "199.99", 10)

	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionCreateOrder,
		CreateOrder: &contractx.CreateOrderArgs{
			CustomerName: "Eve",
			Items:        []contractx.OrderItemArgs{{ProductName: "Super Gadget", Quantity: 999}},
		},
	})
	var insufficient *contractx.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want InsufficientStockError", err)
	}
	if insufficient.Available != 10 {
		t.Fatalf("available = %d, want 10", insufficient.Available)
	}

	after, _ := store.ProductByID(context.Background(), gadget.ID)
	if after.Stock != 10 {
		t.Fatalf("stock = %d, want untouched 10", after.Stock)
	}

	orders, _ := store.Orders(context.Background())
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}

func TestCreateOrderUnknownProductLeavesStockUntouched(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	widget := seedProduct(t, store, "Premium Widget", "29.99", 50)

	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionCreateOrder,
		CreateOrder: &contractx.CreateOrderArgs{
			CustomerName: "Frank",
			Items: []contractx.OrderItemArgs{
				{ProductName: "Premium Widget", Quantity: 3},
				{ProductName: "Imaginary Gizmo", Quantity: 1},
			},
		},
	})
	var missing *contractx.ProductNotFoundError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want ProductNotFoundError", err)
	}
	if missing.Name != "Imaginary Gizmo" {
		t.Fatalf("missing product = %q", missing.Name)
	}

	// All-or-nothing: the widget line processed earlier must not have
	// decremented anything.
	after, _ := store.ProductByID(context.Background(), widget.ID)
	if after.Stock != 50 {
		t.Fatalf("stock = %d, want untouched 50", after.Stock)
	}
}

func TestCreateOrderRejectsInvalidQuantity(t *testing.T) {
	t.Parallel()

	exec, store := newTestExecutor(t)
	seedProduct(t, store, "Premium Widget", "29.99", 50)

	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{
		Type: contractx.ActionCreateOrder,
		CreateOrder: &contractx.CreateOrderArgs{
			CustomerName: "Grace",
			Items:        []contractx.OrderItemArgs{{ProductName: "Premium Widget", Quantity: 0}},
		},
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestExecuteUnknownAction(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	_, err := exec.Execute(context.Background(), &contractx.ActionRequest{Type: "transfer_funds"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
