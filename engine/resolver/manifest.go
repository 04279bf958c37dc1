package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

// toolManifest is the closed capability set offered to the model. One entry
// per ActionType; the executor is a total mapping over the same set.
func toolManifest() []openaisdk.ChatCompletionToolParam {
	return []openaisdk.ChatCompletionToolParam{
		{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        string(contractx.ActionCheckAvailability),
				Description: openaisdk.String("Check if an appointment slot is available"),
				Parameters: openaisdk.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"date": map[string]any{
							"type":        "string",
							"description": "ISO date string or description (e.g. 2023-10-27T10:00:00)",
						},
					},
					"required": []string{"date"},
				},
			},
		},
		{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        string(contractx.ActionBookAppointment),
				Description: openaisdk.String("Book a confirmed appointment"),
				Parameters: openaisdk.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"customerName": map[string]any{"type": "string"},
						"date": map[string]any{
							"type":        "string",
							"description": "ISO date string",
						},
						"contactInfo": map[string]any{"type": "string"},
					},
					"required": []string{"customerName", "date", "contactInfo"},
				},
			},
		},
		{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        string(contractx.ActionCreateOrder),
				Description: openaisdk.String("Place an order for products"),
				Parameters: openaisdk.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"customerName": map[string]any{"type": "string"},
						"items": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"productName": map[string]any{"type": "string"},
									"quantity":    map[string]any{"type": "number"},
								},
								"required": []string{"productName", "quantity"},
							},
						},
					},
					"required": []string{"customerName", "items"},
				},
			},
		},
	}
}

// decodeAction maps a raw tool call back onto the tagged ActionRequest
// variant. Unknown names and malformed arguments are schema violations.
func decodeAction(name, rawArgs string) (*contractx.ActionRequest, error) {
	unmarshal := func(dst any) error {
		trimmed := strings.TrimSpace(rawArgs)
		if trimmed == "" {
			return fmt.Errorf("tool %s: empty arguments", name)
		}
		if err := json.Unmarshal([]byte(trimmed), dst); err != nil {
			return fmt.Errorf("tool %s: decode arguments: %w", name, err)
		}
		return nil
	}

	switch contractx.ActionType(name) {
	case contractx.ActionCheckAvailability:
		var args contractx.CheckAvailabilityArgs
		if err := unmarshal(&args); err != nil {
			return nil, err
		}
		return &contractx.ActionRequest{
			Type:              contractx.ActionCheckAvailability,
			CheckAvailability: &args,
		}, nil
	case contractx.ActionBookAppointment:
		var args contractx.BookAppointmentArgs
		if err := unmarshal(&args); err != nil {
			return nil, err
		}
		return &contractx.ActionRequest{
			Type:            contractx.ActionBookAppointment,
			BookAppointment: &args,
		}, nil
	case contractx.ActionCreateOrder:
		var args contractx.CreateOrderArgs
		if err := unmarshal(&args); err != nil {
			return nil, err
		}
		return &contractx.ActionRequest{
			Type:        contractx.ActionCreateOrder,
			CreateOrder: &args,
		}, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}
