package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
	sessionx "github.com/voxdesk/voxdesk/engine/session"
)

const (
	defaultTimeout = 30 * time.Second
	// historyTurns caps how much transcript is replayed for continuity.
	historyTurns = 12
)

// Resolver sends the utterance plus the capability manifest to an
// OpenAI-compatible completion service and maps the answer onto a
// Resolution. It never executes an action itself.
type Resolver struct {
	client    *openaisdk.Client
	inventory contractx.InventoryLedger
	model     string
	timeout   time.Duration
}

var _ contractx.IntentResolver = (*Resolver)(nil)

func New(client *openaisdk.Client, inventory contractx.InventoryLedger, model string, timeout time.Duration) (*Resolver, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	if inventory == nil {
		return nil, errors.New("inventory ledger is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model name is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		client:    client,
		inventory: inventory,
		model:     model,
		timeout:   timeout,
	}, nil
}

func (r *Resolver) Resolve(ctx context.Context, utterance string, history []sessionx.Turn) (contractx.Resolution, error) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return contractx.Resolution{}, fmt.Errorf("%w: utterance is empty", contractx.ErrValidation)
	}

	products, err := r.inventory.ActiveProducts(ctx)
	if err != nil {
		return contractx.Resolution{}, fmt.Errorf("load product catalog: %w", err)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openaisdk.SystemMessage(systemPrompt(products)))
	for _, turn := range history {
		switch turn.Role {
		case sessionx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openaisdk.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openaisdk.UserMessage(text))

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	completion, err := r.client.Chat.Completions.New(callCtx, openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(r.model),
		Messages: messages,
		Tools:    toolManifest(),
	})
	if err != nil {
		return contractx.Resolution{}, fmt.Errorf("%w: %v", contractx.ErrServiceUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.Resolution{}, fmt.Errorf("%w: completion has no choices", contractx.ErrServiceUnavailable)
	}

	msg := completion.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return contractx.Resolution{Reply: strings.TrimSpace(msg.Content)}, nil
	}

	// Only the first requested action is honored; the model is instructed
	// to request one capability per turn.
	if len(msg.ToolCalls) > 1 {
		log.Debug().Int("dropped", len(msg.ToolCalls)-1).Msg("resolver: extra tool calls ignored")
	}
	call := msg.ToolCalls[0]
	action, err := decodeAction(call.Function.Name, call.Function.Arguments)
	if err != nil {
		return contractx.Resolution{}, fmt.Errorf("%w: %v", contractx.ErrServiceUnavailable, err)
	}
	return contractx.Resolution{Action: action}, nil
}
