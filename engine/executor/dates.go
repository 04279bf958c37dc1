package executor

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

// The model is instructed to hand over ISO-style dates, but spoken input
// gets mangled; accept the common shapes before giving up.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 at 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"01/02/2006 15:04",
	"01/02/2006",
}

func parseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", contractx.ErrDateUnparseable)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", contractx.ErrDateUnparseable, raw)
}
