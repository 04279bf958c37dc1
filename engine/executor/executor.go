package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

// Executor dispatches a resolved action to the ledgers. Dispatch is a total
// mapping over the ActionType set; every mutation happens inside a
// ledger-owned transaction, never as caller-coordinated read-then-write.
type Executor struct {
	inventory contractx.InventoryLedger
	calendar  contractx.SchedulingLedger
	orders    contractx.OrderStore
}

func New(inventory contractx.InventoryLedger, calendar contractx.SchedulingLedger, orders contractx.OrderStore) (*Executor, error) {
	if inventory == nil {
		return nil, errors.New("inventory ledger is required")
	}
	if calendar == nil {
		return nil, errors.New("scheduling ledger is required")
	}
	if orders == nil {
		return nil, errors.New("order store is required")
	}
	return &Executor{
		inventory: inventory,
		calendar:  calendar,
		orders:    orders,
	}, nil
}

func (e *Executor) Execute(ctx context.Context, action *contractx.ActionRequest) (contractx.ExecResult, error) {
	if action == nil {
		return contractx.ExecResult{}, fmt.Errorf("%w: nil action", contractx.ErrValidation)
	}
	switch action.Type {
	case contractx.ActionCheckAvailability:
		return e.checkAvailability(ctx, action.CheckAvailability)
	case contractx.ActionBookAppointment:
		return e.bookAppointment(ctx, action.BookAppointment)
	case contractx.ActionCreateOrder:
		return e.createOrder(ctx, action.CreateOrder)
	default:
		return contractx.ExecResult{}, fmt.Errorf("%w: unknown action type %q", contractx.ErrValidation, action.Type)
	}
}

// checkAvailability is read-only and makes no reservation; BookSlot
// re-validates the window, so a racing booking between the two calls cannot
// double-book.
func (e *Executor) checkAvailability(ctx context.Context, args *contractx.CheckAvailabilityArgs) (contractx.ExecResult, error) {
	if args == nil {
		return contractx.ExecResult{}, fmt.Errorf("%w: missing check_availability arguments", contractx.ErrValidation)
	}
	date, err := parseDate(args.Date)
	if err != nil {
		return contractx.ExecResult{}, err
	}

	conflicting, err := e.calendar.ConfirmedBetween(ctx, date.Add(-contractx.ConflictWindow), date.Add(contractx.ConflictWindow))
	if err != nil {
		return contractx.ExecResult{}, fmt.Errorf("query calendar: %w", err)
	}

	return contractx.ExecResult{
		Availability: &contractx.Availability{
			Date:      date,
			Spoken:    strings.TrimSpace(args.Date),
			Available: len(conflicting) == 0,
		},
	}, nil
}

func (e *Executor) bookAppointment(ctx context.Context, args *contractx.BookAppointmentArgs) (contractx.ExecResult, error) {
	if args == nil {
		return contractx.ExecResult{}, fmt.Errorf("%w: missing book_appointment arguments", contractx.ErrValidation)
	}
	if strings.TrimSpace(args.CustomerName) == "" {
		return contractx.ExecResult{}, fmt.Errorf("%w: customer name is required", contractx.ErrValidation)
	}
	date, err := parseDate(args.Date)
	if err != nil {
		return contractx.ExecResult{}, err
	}

	appt := &contractx.Appointment{
		CustomerName: strings.TrimSpace(args.CustomerName),
		Date:         date,
		Status:       contractx.AppointmentConfirmed,
		ContactInfo:  strings.TrimSpace(args.ContactInfo),
	}
	if err := e.calendar.BookSlot(ctx, appt); err != nil {
		if errors.Is(err, contractx.ErrSlotConflict) {
			return contractx.ExecResult{}, err
		}
		return contractx.ExecResult{}, fmt.Errorf("book slot: %w", err)
	}
	return contractx.ExecResult{Booking: appt}, nil
}

// createOrder resolves every item before reserving anything, then reserves
// all lines in one atomic ledger call. A failure on any line leaves no
// observable decrement.
func (e *Executor) createOrder(ctx context.Context, args *contractx.CreateOrderArgs) (contractx.ExecResult, error) {
	if args == nil {
		return contractx.ExecResult{}, fmt.Errorf("%w: missing create_order arguments", contractx.ErrValidation)
	}
	if len(args.Items) == 0 {
		return contractx.ExecResult{}, fmt.Errorf("%w: order has no items", contractx.ErrValidation)
	}

	lines := make([]contractx.StockLine, 0, len(args.Items))
	for _, item := range args.Items {
		name := strings.TrimSpace(item.ProductName)
		if name == "" || item.Quantity <= 0 {
			return contractx.ExecResult{}, fmt.Errorf("%w: invalid order item %q qty=%d", contractx.ErrValidation, item.ProductName, item.Quantity)
		}
		product, err := e.inventory.ProductByName(ctx, name)
		if err != nil {
			if errors.Is(err, contractx.ErrNotFound) {
				return contractx.ExecResult{}, &contractx.ProductNotFoundError{Name: name}
			}
			return contractx.ExecResult{}, fmt.Errorf("resolve product %q: %w", name, err)
		}
		lines = append(lines, contractx.StockLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
		})
	}

	items, err := e.inventory.ReserveStock(ctx, lines)
	if err != nil {
		var insufficient *contractx.InsufficientStockError
		if errors.As(err, &insufficient) {
			return contractx.ExecResult{}, err
		}
		var missing *contractx.ProductNotFoundError
		if errors.As(err, &missing) {
			return contractx.ExecResult{}, err
		}
		return contractx.ExecResult{}, fmt.Errorf("reserve stock: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &contractx.Order{
		CustomerName: strings.TrimSpace(args.CustomerName),
		Status:       contractx.OrderPending,
		TotalAmount:  total,
		Items:        items,
	}
	if err := e.orders.CreateOrder(ctx, order); err != nil {
		return contractx.ExecResult{}, fmt.Errorf("create order: %w", err)
	}
	return contractx.ExecResult{Receipt: order}, nil
}
