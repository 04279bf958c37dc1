package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	composerx "github.com/voxdesk/voxdesk/engine/composer"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
	sessionx "github.com/voxdesk/voxdesk/engine/session"
)

// historyTurns caps the transcript replayed to the resolver per utterance.
const historyTurns = 12

// Service wires resolver, executor, and composer into the full
// utterance-to-outcome flow. Each call is independent; concurrent sessions
// and customers are expected.
type Service struct {
	resolver contractx.IntentResolver
	executor contractx.ActionExecutor
	composer *composerx.Composer
	sessions sessionx.Store

	now func() time.Time
}

func New(resolver contractx.IntentResolver, executor contractx.ActionExecutor, sessions sessionx.Store) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("intent resolver is required")
	}
	if executor == nil {
		return nil, errors.New("action executor is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	return &Service{
		resolver: resolver,
		executor: executor,
		composer: composerx.New(),
		sessions: sessions,
		now:      time.Now,
	}, nil
}

// HandleUtterance resolves intent, executes at most one action, and composes
// the spoken reply. Taxonomy failures come back as sentences; only
// unexpected faults return an error.
func (s *Service) HandleUtterance(ctx context.Context, sessionID, text string) (contractx.Outcome, error) {
	utterance := strings.TrimSpace(text)
	if utterance == "" {
		return contractx.Outcome{}, fmt.Errorf("%w: text is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(sessionID) == "" {
		return contractx.Outcome{}, fmt.Errorf("%w: sessionId is required", contractx.ErrValidation)
	}

	sess := s.loadOrCreateSession(ctx, sessionID)

	resolution, err := s.resolver.Resolve(ctx, utterance, sess.Recent(historyTurns))
	if err != nil {
		return s.recover(ctx, sess, utterance, err)
	}

	var outcome contractx.Outcome
	if resolution.Action == nil {
		outcome = s.composer.Direct(resolution.Reply)
	} else {
		result, err := s.executor.Execute(ctx, resolution.Action)
		if err != nil {
			return s.recover(ctx, sess, utterance, err)
		}
		outcome = s.composer.Compose(result)
	}

	s.remember(ctx, sess, utterance, outcome.TextResponse)
	return outcome, nil
}

// recover degrades a taxonomy error to a spoken sentence. Anything outside
// the taxonomy propagates for the transport to turn into an opaque 5xx.
func (s *Service) recover(ctx context.Context, sess *sessionx.Session, utterance string, err error) (contractx.Outcome, error) {
	outcome, ok := s.composer.ComposeError(err)
	if !ok {
		return contractx.Outcome{}, err
	}
	log.Debug().Err(err).Str("session_id", sess.ID).Msg("utterance recovered into spoken reply")
	s.remember(ctx, sess, utterance, outcome.TextResponse)
	return outcome, nil
}

// loadOrCreateSession never fails the request: a broken session store only
// costs conversational context.
func (s *Service) loadOrCreateSession(ctx context.Context, sessionID string) *sessionx.Session {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err == nil {
		return sess
	}
	if !errors.Is(err, sessionx.ErrNotFound) {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("session load failed, starting fresh")
	}
	return sessionx.New(sessionID, s.now())
}

func (s *Service) remember(ctx context.Context, sess *sessionx.Session, utterance, reply string) {
	now := s.now()
	sess.Append(sessionx.RoleUser, utterance, now)
	sess.Append(sessionx.RoleAssistant, reply, now)
	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("session save failed")
	}
}
