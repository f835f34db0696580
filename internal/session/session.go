package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parley-im/parley/internal/cache"
	"github.com/parley-im/parley/internal/domain"
)

const defaultPageSize = 20

// DefaultGroupName is the reserved group name used by selection restore
// when no usable stored selection exists. Matched case-insensitively.
const DefaultGroupName = "general"

// Options tunes a Session. Zero values select the defaults.
type Options struct {
	PageSize     int    // Messages added per load-more step
	DefaultGroup string // Reserved group name for selection restore
	Logger       *slog.Logger
}

// Session is the per-identity chat engine. All mutable state (selection,
// pagination window, filter, draft) lives behind one mutex; handlers and
// operations read the current selection at call time rather than capturing
// it, so the single event subscription survives every selection change.
type Session struct {
	kv     domain.KeyValue
	cache  *cache.Store
	logger *slog.Logger

	pageSize     int
	defaultGroup string

	// ctx bounds the event bridge and background refetches
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	svc      domain.ChatService // nil once closed
	scope    string
	selected string // selected group id, "" when none
	visible  int    // pagination window for the selected group
	filter   string
	draft    string
	inflight map[string]struct{} // cache keys with a refetch in progress

	refetches sync.WaitGroup
}

// snapshot is the session state an operation works against, captured once
// under the lock at the start of the call.
type snapshot struct {
	svc      domain.ChatService
	scope    string
	selected string
	window   int
}

// New builds a Session bound to the given transport and durable store and
// starts its event bridge. The identity scope is derived from the
// transport's current address.
func New(svc domain.ChatService, kv domain.KeyValue, opts Options) (*Session, error) {
	if svc == nil {
		return nil, domain.ErrServiceUnavailable
	}
	if kv == nil {
		return nil, errors.New("session: nil durable store")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", uuid.NewString()[:8])
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	defaultGroup := opts.DefaultGroup
	if defaultGroup == "" {
		defaultGroup = DefaultGroupName
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		kv:           kv,
		cache:        cache.New(),
		logger:       logger,
		pageSize:     pageSize,
		defaultGroup: defaultGroup,
		ctx:          ctx,
		cancel:       cancel,
		svc:          svc,
		scope:        domain.ScopeID(svc.MyPublicKey()),
		visible:      pageSize,
		inflight:     make(map[string]struct{}),
	}

	events, err := svc.Events(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to chat events: %w", err)
	}
	go s.consumeEvents(events)

	s.logger.Debug("session started", "scope", s.scope)
	return s, nil
}

// Close stops the event bridge, waits out in-flight refetches, and
// detaches the transport; every later operation fails with
// ErrServiceUnavailable. The durable store is left open for its owner.
func (s *Session) Close() error {
	s.cancel()
	s.mu.Lock()
	s.svc = nil
	s.mu.Unlock()
	s.refetches.Wait()
	s.logger.Debug("session closed")
	return nil
}

// Scope returns the active identity scope.
func (s *Session) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// RefreshIdentity re-derives the identity scope from the transport's
// current address. On change, selection, pagination window, filter, and
// draft reset; cache entries for the previous scope stay in place but are
// never read under the new scope.
func (s *Session) RefreshIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return domain.ErrServiceUnavailable
	}

	scope := domain.ScopeID(s.svc.MyPublicKey())
	if scope == s.scope {
		return nil
	}

	old := s.scope
	s.scope = scope
	s.selected = ""
	s.visible = s.pageSize
	s.filter = ""
	s.draft = ""
	s.logger.Info("identity scope changed", "from", old, "to", scope)
	return nil
}

// SetDraft stores the composer text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the stored composer text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) snapshot() (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return snapshot{}, domain.ErrServiceUnavailable
	}
	return snapshot{svc: s.svc, scope: s.scope, selected: s.selected, window: s.visible}, nil
}

// readThrough serves key from the cache with stale-while-revalidate
// semantics: fresh hits return as-is, stale hits return immediately and
// revalidate in the background, misses fetch synchronously.
func (s *Session) readThrough(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (any, error)) (any, error) {
	value, state := s.cache.Read(key)
	switch state {
	case cache.Fresh:
		return value, nil
	case cache.Stale:
		s.revalidate(key, ttl, fetch)
		return value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Write(key, value, ttl)
	return value, nil
}

// revalidate starts one background refetch for key unless one is already
// in flight. The refetch runs on the session's lifetime context and writes
// under the key it fetched for, so a late result for an abandoned group or
// scope lands under its own key and cannot pollute the current one.
func (s *Session) revalidate(key string, ttl time.Duration, fetch func(context.Context) (any, error)) {
	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	s.refetches.Add(1)
	go func() {
		defer s.refetches.Done()
		value, err := fetch(s.ctx)

		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()

		if err != nil {
			s.logger.Debug("background refetch failed", "key", key, "error", err)
			return
		}
		s.cache.Write(key, value, ttl)
	}()
}
