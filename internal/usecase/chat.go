package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"dataset-agent/internal/catalog"
	"dataset-agent/internal/domain"
	"dataset-agent/internal/engine"
)

const defaultMaxMessageLen = 500

// Parameter names looked up under the configured prefix. All are optional;
// built-in templates apply when a parameter is absent.
const (
	paramPortalURL     = "portal_url"
	paramPortalTitle   = "portal_title"
	paramIdentityReply = "identity_reply"
	paramGreetingReply = "greeting_reply"
)

// ParamGetter reads optional remote configuration parameters.
type ParamGetter interface {
	GetOptional(ctx context.Context, name string) (string, bool, error)
}

// ChatService turns a raw widget message into a composed reply with
// citations. The engine is built lazily on the first call so that remote
// template overrides are fetched once per process, mirroring a Lambda cold
// start.
type ChatService struct {
	catalog       catalog.Catalog
	params        ParamGetter // nil when no remote overrides are configured
	paramPrefix   string
	maxMessageLen int

	cacheMu sync.RWMutex
	eng     *engine.Engine
}

type ChatInput struct {
	Message        string
	ConversationID string
}

type ChatOutput struct {
	Reply          string
	Sources        []domain.Source
	Intent         domain.Intent
	ConversationID string
}

// NewChatService validates dependencies and returns a ChatService. params may
// be nil, in which case the built-in templates are used as-is; when params is
// set, paramPrefix must name the parameter tree holding the overrides.
func NewChatService(cat catalog.Catalog, params ParamGetter, paramPrefix string, maxMessageLen int) (*ChatService, error) {
	if cat.Len() == 0 {
		return nil, errors.New("usecase: catalog must not be empty")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if params != nil && paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessageLen
	}
	return &ChatService{
		catalog:       cat,
		params:        params,
		paramPrefix:   paramPrefix,
		maxMessageLen: maxMessageLen,
	}, nil
}

// Chat runs the classify, match, compose pipeline for one submitted message.
// Empty and oversized messages are rejected here; the engine itself has no
// failure modes.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}
	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return ChatOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}

	eng, err := s.ensureEngine(ctx)
	if err != nil {
		return ChatOutput{}, newError(ErrorInternal, "ssm_load_error", err)
	}

	convID := strings.TrimSpace(in.ConversationID)
	if convID == "" {
		convID = newUUID()
	}

	intent := eng.Classify(message)
	matches := eng.Match(message)

	return ChatOutput{
		Reply:          eng.Compose(intent, matches),
		Sources:        eng.Sources(intent, matches),
		Intent:         intent,
		ConversationID: convID,
	}, nil
}

// ensureEngine builds the engine on first use, applying any remote template
// overrides, and caches it for the lifetime of the process.
func (s *ChatService) ensureEngine(ctx context.Context) (*engine.Engine, error) {
	s.cacheMu.RLock()
	if s.eng != nil {
		eng := s.eng
		s.cacheMu.RUnlock()
		return eng, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.eng != nil {
		return s.eng, nil
	}

	opts, err := s.loadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(s.catalog, opts...)
	if err != nil {
		return nil, err
	}
	s.eng = eng
	return eng, nil
}

func (s *ChatService) loadOverrides(ctx context.Context) ([]engine.Option, error) {
	if s.params == nil {
		return nil, nil
	}

	var opts []engine.Option
	for _, p := range []struct {
		name string
		opt  func(string) engine.Option
	}{
		{paramPortalURL, engine.WithPortalURL},
		{paramPortalTitle, engine.WithPortalTitle},
		{paramIdentityReply, engine.WithIdentityReply},
		{paramGreetingReply, engine.WithGreetingReply},
	} {
		v, ok, err := s.params.GetOptional(ctx, s.paramPrefix+"/"+p.name)
		if err != nil {
			return nil, fmt.Errorf("usecase: load override %s: %w", p.name, err)
		}
		if ok {
			opts = append(opts, p.opt(v))
		}
	}
	return opts, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
