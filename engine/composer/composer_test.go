package composer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

func TestDirectPassesReplyThrough(t *testing.T) {
	t.Parallel()

	out := New().Direct("We're open 9 to 5 on weekdays.")
	if out.TextResponse != "We're open 9 to 5 on weekdays." {
		t.Fatalf("text = %q", out.TextResponse)
	}
	if out.Action == nil || out.Action.Type != contractx.HintNone {
		t.Fatalf("hint = %+v, want none", out.Action)
	}
}

func TestDirectEmptyReplyFallsBack(t *testing.T) {
	t.Parallel()

	out := New().Direct("   ")
	if out.TextResponse != "I didn't quite catch that." {
		t.Fatalf("text = %q", out.TextResponse)
	}
}

func TestComposeAvailableSlot(t *testing.T) {
	t.Parallel()

	out := New().Compose(contractx.ExecResult{
		Availability: &contractx.Availability{
			Spoken:    "tomorrow at 2 PM",
			Available: true,
		},
	})
	if out.TextResponse != "Yes, tomorrow at 2 PM is available. Would you like me to book it?" {
		t.Fatalf("text = %q", out.TextResponse)
	}
	if out.Action == nil || out.Action.Type != contractx.HintAskTime {
		t.Fatalf("hint = %+v, want ask_time", out.Action)
	}
}

func TestComposeTakenSlot(t *testing.T) {
	t.Parallel()

	out := New().Compose(contractx.ExecResult{
		Availability: &contractx.Availability{Spoken: "tomorrow at 2 PM"},
	})
	if out.TextResponse != "Sorry, that time is already booked. Please choose another time." {
		t.Fatalf("text = %q", out.TextResponse)
	}
	if out.Action != nil {
		t.Fatalf("hint = %+v, want none set", out.Action)
	}
}

func TestComposeBooking(t *testing.T) {
	t.Parallel()

	appt := &contractx.Appointment{
		ID:           7,
		CustomerName: "Alice",
		Date:         time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
		Status:       contractx.AppointmentConfirmed,
	}
	out := New().Compose(contractx.ExecResult{Booking: appt})
	want := "I've booked your appointment for September 2, 2026 at 2:00 PM. Thank you, Alice!"
	if out.TextResponse != want {
		t.Fatalf("text = %q, want %q", out.TextResponse, want)
	}
	if out.Action == nil || out.Action.Type != contractx.HintConfirmAppointment {
		t.Fatalf("hint = %+v, want confirm_appointment", out.Action)
	}
	if out.Action.Data != appt {
		t.Fatal("hint data must carry the appointment record")
	}
}

func TestComposeReceipt(t *testing.T) {
	t.Parallel()

	order := &contractx.Order{
		ID:          3,
		TotalAmount: decimal.RequireFromString("149.95"),
		Status:      contractx.OrderPending,
	}
	out := New().Compose(contractx.ExecResult{Receipt: order})
	if out.TextResponse != "Order placed! Your total is $149.95." {
		t.Fatalf("text = %q", out.TextResponse)
	}
	if out.Action == nil || out.Action.Type != contractx.HintConfirmOrder {
		t.Fatalf("hint = %+v, want confirm_order", out.Action)
	}
}

func TestComposeErrorTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		wantText string
		wantHint contractx.HintType
	}{
		{
			name:     "product not found",
			err:      &contractx.ProductNotFoundError{Name: "Imaginary Gizmo"},
			wantText: "I couldn't find a product named Imaginary Gizmo.",
		},
		{
			name:     "insufficient stock",
			err:      &contractx.InsufficientStockError{Name: "Super Gadget", Requested: 999, Available: 10},
			wantText: "Sorry, we only have 10 of Super Gadget left.",
			wantHint: contractx.HintCheckStock,
		},
		{
			name:     "unparseable date",
			err:      fmt.Errorf("book: %w", contractx.ErrDateUnparseable),
			wantText: "I couldn't understand that date. Could you please repeat it?",
		},
		{
			name:     "slot conflict",
			err:      contractx.ErrSlotConflict,
			wantText: "Sorry, that time is already booked. Please choose another time.",
		},
		{
			name:     "upstream unavailable",
			err:      fmt.Errorf("%w: dial tcp", contractx.ErrServiceUnavailable),
			wantText: "I'm having trouble connecting right now. Please try again later.",
			wantHint: contractx.HintNone,
		},
		{
			name:     "validation",
			err:      fmt.Errorf("%w: quantity must be positive", contractx.ErrValidation),
			wantText: "Sorry, I didn't quite catch that. Could you say it again?",
		},
	}

	c := New()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, ok := c.ComposeError(tc.err)
			if !ok {
				t.Fatalf("ComposeError(%v) not spoken", tc.err)
			}
			if out.TextResponse != tc.wantText {
				t.Fatalf("text = %q, want %q", out.TextResponse, tc.wantText)
			}
			if tc.wantHint == "" {
				if out.Action != nil && out.Action.Type != contractx.HintNone && out.Action.Type != "" {
					t.Fatalf("unexpected hint %+v", out.Action)
				}
				return
			}
			if out.Action == nil || out.Action.Type != tc.wantHint {
				t.Fatalf("hint = %+v, want %s", out.Action, tc.wantHint)
			}
		})
	}
}

func TestComposeErrorRefusesUnknownFaults(t *testing.T) {
	t.Parallel()

	if _, ok := New().ComposeError(errors.New("pq: connection reset")); ok {
		t.Fatal("internal faults must not be spoken to the caller")
	}
}
