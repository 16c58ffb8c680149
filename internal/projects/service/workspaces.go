package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	authdomain "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/identity"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/syncengine"
)

const bearerKeyPrefix = "bearer:"

// Workspace pairs an identity with the project cache that follows it.
type Workspace struct {
	Identity *identity.Provider
	Projects *syncengine.Engine

	key      string
	lastSeen time.Time
}

// Key is the id the workspace is registered under, or "" before sign-in.
func (w *Workspace) Key() string {
	return w.key
}

// Manager owns the live workspaces of the process, keyed by session id.
type Manager struct {
	client   identity.Client
	sessions identity.SessionStore
	profiles identity.ProfileStore
	store    syncengine.Store
	logger   *zap.Logger
	idle     time.Duration
	now      func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewManager creates an empty manager. Workspaces unused for longer than
// idle are dropped by EvictIdle; their sessions stay restorable.
func NewManager(
	client identity.Client,
	sessions identity.SessionStore,
	profiles identity.ProfileStore,
	store syncengine.Store,
	idle time.Duration,
	logger *zap.Logger,
) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Manager{
		client:     client,
		sessions:   sessions,
		profiles:   profiles,
		store:      store,
		logger:     logger,
		idle:       idle,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// New returns a signed-out workspace that is not yet registered.
func (m *Manager) New() *Workspace {
	provider := identity.NewProvider(m.client, m.sessions, m.profiles, m.logger)
	engine := syncengine.New(m.store, provider, m.logger)
	provider.Subscribe(engine.OnIdentityChange)
	return &Workspace{Identity: provider, Projects: engine}
}

// Register makes a signed-in workspace reachable by its session id.
func (m *Manager) Register(w *Workspace) error {
	sid := w.Identity.SessionID()
	if sid == "" {
		return apperrors.ErrNotAuthenticated
	}
	m.put(sid, w)
	return nil
}

// Lookup returns the workspace for sessionID, restoring it from the session
// store when this process has not seen it. A cached workspace is only
// returned while its session still exists in the store, since another
// process may have signed it out.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Workspace, error) {
	if sessionID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if w := m.get(sessionID); w != nil {
		if err := m.confirm(ctx, sessionID, w); err != nil {
			return nil, err
		}
		return w, nil
	}

	w := m.New()
	if err := w.Identity.Restore(ctx, sessionID); err != nil {
		return nil, err
	}

	// A concurrent request may have restored the same session.
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.workspaces[sessionID]; ok {
		existing.lastSeen = m.now()
		return existing, nil
	}
	w.key = sessionID
	w.lastSeen = m.now()
	m.workspaces[sessionID] = w

	m.logger.Info("Restored workspace", zap.String("session_id", sessionID))
	return w, nil
}

// ForBearer returns the workspace for an identity verified from a bearer
// token, creating it on first use.
func (m *Manager) ForBearer(ctx context.Context, id authdomain.Identity) *Workspace {
	key := bearerKeyPrefix + id.ID
	if w := m.get(key); w != nil {
		return w
	}

	w := m.New()
	w.Identity.Adopt(ctx, id)
	m.put(key, w)
	return w
}

// Remove drops the workspace registered under key.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, key)
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// EvictIdle drops workspaces unused for longer than the idle timeout and
// returns how many were removed.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, w := range m.workspaces {
		if w.lastSeen.Before(cutoff) {
			delete(m.workspaces, key)
			n++
		}
	}
	if n > 0 {
		m.logger.Info("Evicted idle workspaces",
			zap.Int("evicted", n),
			zap.Int("remaining", len(m.workspaces)))
	}
	return n
}

// SignOut signs the workspace out and unregisters it.
func (m *Manager) SignOut(ctx context.Context, w *Workspace) error {
	m.Remove(w.key)
	return w.Identity.SignOut(ctx)
}

// confirm checks that the session behind a cached workspace is still live.
// Reading it also extends its TTL. A vanished session drops the workspace.
func (m *Manager) confirm(ctx context.Context, sessionID string, w *Workspace) error {
	_, err := m.sessions.Get(ctx, sessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, authdomain.ErrSessionNotFound) {
		return apperrors.Unavailable(err)
	}

	m.mu.Lock()
	if cur, ok := m.workspaces[sessionID]; ok && cur == w {
		delete(m.workspaces, sessionID)
	}
	m.mu.Unlock()

	// clears the cached projects; the stored session is already gone
	if err := w.Identity.SignOut(ctx); err != nil {
		m.logger.Warn("Failed to sign out ended session", zap.Error(err))
	}
	m.logger.Info("Dropped workspace for ended session", zap.String("session_id", sessionID))
	return apperrors.New(apperrors.KindNotAuthenticated, "session expired, please sign in again")
}

func (m *Manager) get(key string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workspaces[key]
	if !ok {
		return nil
	}
	w.lastSeen = m.now()
	return w
}

func (m *Manager) put(key string, w *Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.key = key
	w.lastSeen = m.now()
	m.workspaces[key] = w
}
