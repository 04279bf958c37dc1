package composer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

const spokenDateLayout = "January 2, 2006 at 3:04 PM"

// Composer turns an execution result or a recoverable failure into a single
// spoken-style sentence plus a typed hint. Template-based, no side effects.
type Composer struct{}

func New() *Composer {
	return &Composer{}
}

// Direct wraps a resolver free-text reply. An empty reply still produces a
// sentence so the voice layer always has something to say.
func (c *Composer) Direct(reply string) contractx.Outcome {
	text := strings.TrimSpace(reply)
	if text == "" {
		text = "I didn't quite catch that."
	}
	return contractx.Outcome{
		TextResponse: text,
		Action:       &contractx.ActionHint{Type: contractx.HintNone},
	}
}

func (c *Composer) Compose(res contractx.ExecResult) contractx.Outcome {
	switch {
	case res.Availability != nil:
		return c.availability(res.Availability)
	case res.Booking != nil:
		return contractx.Outcome{
			TextResponse: fmt.Sprintf("I've booked your appointment for %s. Thank you, %s!",
				spokenDate(res.Booking.Date), res.Booking.CustomerName),
			Action: &contractx.ActionHint{
				Type: contractx.HintConfirmAppointment,
				Data: res.Booking,
			},
		}
	case res.Receipt != nil:
		return contractx.Outcome{
			TextResponse: fmt.Sprintf("Order placed! Your total is $%s.",
				res.Receipt.TotalAmount.StringFixed(2)),
			Action: &contractx.ActionHint{
				Type: contractx.HintConfirmOrder,
				Data: res.Receipt,
			},
		}
	default:
		return c.Direct("")
	}
}

func (c *Composer) availability(av *contractx.Availability) contractx.Outcome {
	if !av.Available {
		return contractx.Outcome{
			TextResponse: "Sorry, that time is already booked. Please choose another time.",
		}
	}
	spoken := av.Spoken
	if spoken == "" {
		spoken = spokenDate(av.Date)
	}
	return contractx.Outcome{
		TextResponse: fmt.Sprintf("Yes, %s is available. Would you like me to book it?", spoken),
		Action:       &contractx.ActionHint{Type: contractx.HintAskTime},
	}
}

// ComposeError maps the recoverable taxonomy onto spoken sentences. The
// second return is false for faults that must surface as an internal error
// instead of being spoken verbatim.
func (c *Composer) ComposeError(err error) (contractx.Outcome, bool) {
	var missing *contractx.ProductNotFoundError
	if errors.As(err, &missing) {
		return contractx.Outcome{
			TextResponse: fmt.Sprintf("I couldn't find a product named %s.", missing.Name),
		}, true
	}

	var insufficient *contractx.InsufficientStockError
	if errors.As(err, &insufficient) {
		return contractx.Outcome{
			TextResponse: fmt.Sprintf("Sorry, we only have %d of %s left.",
				insufficient.Available, insufficient.Name),
			Action: &contractx.ActionHint{Type: contractx.HintCheckStock},
		}, true
	}

	switch {
	case errors.Is(err, contractx.ErrDateUnparseable):
		return contractx.Outcome{
			TextResponse: "I couldn't understand that date. Could you please repeat it?",
		}, true
	case errors.Is(err, contractx.ErrSlotConflict):
		return contractx.Outcome{
			TextResponse: "Sorry, that time is already booked. Please choose another time.",
		}, true
	case errors.Is(err, contractx.ErrServiceUnavailable):
		return contractx.Outcome{
			TextResponse: "I'm having trouble connecting right now. Please try again later.",
			Action:       &contractx.ActionHint{Type: contractx.HintNone},
		}, true
	case errors.Is(err, contractx.ErrValidation):
		return contractx.Outcome{
			TextResponse: "Sorry, I didn't quite catch that. Could you say it again?",
		}, true
	default:
		return contractx.Outcome{}, false
	}
}

func spokenDate(t time.Time) string {
	return t.Format(spokenDateLayout)
}
