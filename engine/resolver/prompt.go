package resolver

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

//go:embed template/receptionist.txt
var receptionistRaw string

// systemPrompt folds the live product catalog into the receptionist
// instructions so the model can name products and prices without guessing
// stock outcomes.
func systemPrompt(products []contractx.Product) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(receptionistRaw))
	b.WriteString("\n\nAvailable products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "%s ($%s) - %d in stock\n", p.Name, p.Price.StringFixed(2), p.Stock)
	}
	return b.String()
}
