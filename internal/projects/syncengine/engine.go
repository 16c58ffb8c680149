// Package syncengine keeps an in-memory view of the projects visible to the
// current identity and mediates every change to them.
//
// The cache only ever reflects confirmed store state: a failed call leaves it
// untouched, and results that arrive after a newer fetch or an identity change
// are dropped.
package syncengine

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	authdomain "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/policy"
)

// Store is the remote project store. Every call is scoped by userID.
type Store interface {
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, id string) (*domain.Project, error)
	Insert(ctx context.Context, userID string, d domain.Draft) (*domain.Project, error)
	Update(ctx context.Context, userID, id string, d domain.Draft) (*domain.Project, error)
	Delete(ctx context.Context, userID, id string) error
}

// IdentitySource reports who is signed in.
type IdentitySource interface {
	Current() (authdomain.Identity, bool)
}

// SaveInput is a whole-payload save. An empty ExistingID creates a project.
type SaveInput struct {
	Goal         string
	TargetDate   domain.Date
	Tasks        json.RawMessage
	ScheduleData json.RawMessage
	ExistingID   string
}

// State is a point-in-time copy of the engine state.
type State struct {
	Projects  []domain.Project
	Loading   bool
	LastError error
}

// Engine is the project cache for one identity session.
type Engine struct {
	store    Store
	identity IdentitySource
	logger   *zap.Logger

	mu       sync.Mutex
	projects []domain.Project
	inflight int
	lastErr  error
	// fetchGen identifies the newest FetchAll. Only its response may
	// replace the cache.
	fetchGen uint64
	// epoch changes with the identity. Results issued under an older epoch
	// are not applied.
	epoch uint64
}

// New creates an engine with an empty cache.
func New(store Store, identity IdentitySource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		identity: identity,
		logger:   logger,
		projects: []domain.Project{},
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Project, len(e.projects))
	for i, p := range e.projects {
		out[i] = p.Clone()
	}
	return State{
		Projects:  out,
		Loading:   e.inflight > 0,
		LastError: e.lastErr,
	}
}

// FetchAll replaces the cache with every project the current identity can
// read. Signed out, it just empties the cache.
func (e *Engine) FetchAll(ctx context.Context) error {
	id, ok := e.identity.Current()
	if !ok {
		e.mu.Lock()
		e.fetchGen++
		e.projects = []domain.Project{}
		e.lastErr = nil
		e.mu.Unlock()
		return nil
	}

	e.mu.Lock()
	e.fetchGen++
	gen := e.fetchGen
	e.inflight++
	e.lastErr = nil
	e.mu.Unlock()

	rows, err := e.store.List(ctx, id.ID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--

	if gen != e.fetchGen {
		e.logger.Debug("Discarding stale project fetch",
			zap.String("user_id", id.ID),
			zap.Uint64("generation", gen))
		return err
	}
	if err != nil {
		e.lastErr = err
		e.logger.Warn("Failed to fetch projects",
			zap.String("user_id", id.ID),
			zap.Error(err))
		return err
	}

	visible := make([]domain.Project, 0, len(rows))
	for _, p := range rows {
		if !policy.CanRead(p, id.ID) {
			e.logger.Error("Store returned an unreadable project",
				zap.String("user_id", id.ID),
				zap.String("project_id", p.ID))
			continue
		}
		visible = append(visible, p.Clone())
	}
	e.projects = visible
	return nil
}

// Save creates or updates a project and mirrors the stored result in the
// cache.
func (e *Engine) Save(ctx context.Context, in SaveInput) (*domain.Project, error) {
	epoch := e.begin()

	id, ok := e.identity.Current()
	if !ok {
		return nil, e.fail(epoch, apperrors.ErrNotAuthenticated)
	}

	draft, err := domain.NewDraft(domain.Payload{
		Goal:         in.Goal,
		TargetDate:   in.TargetDate,
		Tasks:        in.Tasks,
		ScheduleData: in.ScheduleData,
	})
	if err != nil {
		return nil, e.fail(epoch, err)
	}

	if in.ExistingID != "" && e.cachedDenies(in.ExistingID, id.ID, policy.CanWrite) {
		return nil, e.fail(epoch, apperrors.New(apperrors.KindAccessDenied, "only the owner can update this project"))
	}

	var saved *domain.Project
	if in.ExistingID == "" {
		saved, err = e.store.Insert(ctx, id.ID, draft)
	} else {
		saved, err = e.store.Update(ctx, id.ID, in.ExistingID, draft)
	}
	if err != nil {
		return nil, e.fail(epoch, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--

	if epoch != e.epoch {
		return saved, nil
	}
	// an in-flight fetch may predate this write
	e.fetchGen++
	p := saved.Clone()
	if i := e.indexOf(p.ID); i >= 0 {
		e.projects[i] = p
	} else {
		e.projects = append([]domain.Project{p}, e.projects...)
	}

	e.logger.Info("Saved project",
		zap.String("user_id", id.ID),
		zap.String("project_id", p.ID),
		zap.Bool("created", in.ExistingID == ""))
	return saved, nil
}

// DeleteOne deletes a project the current identity owns.
func (e *Engine) DeleteOne(ctx context.Context, projectID string) error {
	epoch := e.begin()

	id, ok := e.identity.Current()
	if !ok {
		return e.fail(epoch, apperrors.ErrNotAuthenticated)
	}
	if e.cachedDenies(projectID, id.ID, policy.CanDelete) {
		return e.fail(epoch, apperrors.New(apperrors.KindAccessDenied, "only the owner can delete this project"))
	}

	if err := e.store.Delete(ctx, id.ID, projectID); err != nil {
		return e.fail(epoch, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--

	if epoch != e.epoch {
		return nil
	}
	e.fetchGen++
	if i := e.indexOf(projectID); i >= 0 {
		e.projects = append(e.projects[:i:i], e.projects[i+1:]...)
	}

	e.logger.Info("Deleted project",
		zap.String("user_id", id.ID),
		zap.String("project_id", projectID))
	return nil
}

// LoadOne reads a single project for restoring into an editor. The cache is
// not touched.
func (e *Engine) LoadOne(ctx context.Context, projectID string) (domain.Loaded, error) {
	epoch := e.begin()

	id, ok := e.identity.Current()
	if !ok {
		return domain.Loaded{}, e.fail(epoch, apperrors.ErrNotAuthenticated)
	}

	p, err := e.store.Get(ctx, id.ID, projectID)
	if err != nil {
		return domain.Loaded{}, e.fail(epoch, err)
	}

	e.mu.Lock()
	e.inflight--
	e.mu.Unlock()

	return domain.Loaded{ID: p.ID, Payload: p.Payload()}, nil
}

// OnIdentityChange reacts to sign-in and sign-out. A nil identity empties
// the cache without calling the store.
func (e *Engine) OnIdentityChange(ctx context.Context, id *authdomain.Identity) {
	e.mu.Lock()
	e.epoch++
	e.fetchGen++
	e.projects = []domain.Project{}
	e.lastErr = nil
	e.mu.Unlock()

	if id == nil {
		return
	}
	if err := e.FetchAll(ctx); err != nil {
		e.logger.Warn("Initial project fetch failed",
			zap.String("user_id", id.ID),
			zap.Error(err))
	}
}

// begin marks an operation as started and returns the current epoch.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight++
	e.lastErr = nil
	return e.epoch
}

// fail ends an operation started with begin and records err, unless the
// identity changed while the operation ran.
func (e *Engine) fail(epoch uint64, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--
	if epoch == e.epoch {
		e.lastErr = err
	}
	return err
}

// cachedDenies reports whether the cached copy of projectID proves that
// userID may not perform the action. Uncached ids are left to the store.
func (e *Engine) cachedDenies(projectID, userID string, allowed func(domain.Project, string) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(projectID)
	return i >= 0 && !allowed(e.projects[i], userID)
}

// indexOf must be called with mu held.
func (e *Engine) indexOf(projectID string) int {
	for i := range e.projects {
		if e.projects[i].ID == projectID {
			return i
		}
	}
	return -1
}
