// Package testutil holds in-memory stand-ins for the identity service, the
// session store and the project store.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	authdomain "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/policy"
)

// Password is accepted by IdentityClient for every account.
const Password = "correct-horse"

// IdentityClient accepts Password for any email. The user id is "uid-" + email.
type IdentityClient struct {
	mu     sync.Mutex
	Resets []string
}

func (c *IdentityClient) SignIn(_ context.Context, email, password string) (*authdomain.Credentials, error) {
	if password != Password {
		return nil, apperrors.New(apperrors.KindNotAuthenticated, "INVALID_LOGIN_CREDENTIALS")
	}
	return &authdomain.Credentials{
		Identity: authdomain.Identity{ID: "uid-" + email, Email: email},
		IDToken:  "id-token",
	}, nil
}

func (c *IdentityClient) SignUp(_ context.Context, email, password, displayName string) (*authdomain.Credentials, error) {
	if password != Password {
		return nil, apperrors.Validation("WEAK_PASSWORD")
	}
	return &authdomain.Credentials{
		Identity: authdomain.Identity{ID: "uid-" + email, Email: email, DisplayName: displayName},
	}, nil
}

func (c *IdentityClient) SendPasswordReset(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Resets = append(c.Resets, email)
	return nil
}

// Sessions is an in-memory session store.
type Sessions struct {
	mu   sync.Mutex
	data map[string]authdomain.Session
}

func NewSessions() *Sessions {
	return &Sessions{data: map[string]authdomain.Session{}}
}

func (s *Sessions) Save(_ context.Context, sess *authdomain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = *sess
	return nil
}

func (s *Sessions) Get(_ context.Context, id string) (*authdomain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil, authdomain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// ProjectStore is an in-memory project store with the SQL adapter's filters.
type ProjectStore struct {
	mu     sync.Mutex
	rows   map[string]domain.Project
	clock  time.Time
	nextID int
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		rows:  map[string]domain.Project{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Put stores p as-is, stamping timestamps.
func (s *ProjectStore) Put(p domain.Project) domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Collaborators == nil {
		p.Collaborators = []string{}
	}
	s.rows[p.ID] = p.Clone()
	return p
}

// Row returns the stored row by id.
func (s *ProjectStore) Row(id string) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	return p.Clone(), ok
}

func (s *ProjectStore) List(_ context.Context, userID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Project{}
	for _, p := range s.rows {
		if policy.CanRead(p, userID) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *ProjectStore) Get(_ context.Context, userID, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || !policy.CanRead(p, userID) {
		return nil, apperrors.New(apperrors.KindNotFound, "project not found")
	}
	cp := p.Clone()
	return &cp, nil
}

func (s *ProjectStore) Insert(_ context.Context, userID string, d domain.Draft) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.tick()
	p := domain.Project{
		ID:            fmt.Sprintf("00000000-0000-4000-8000-%012d", s.nextID),
		Title:         d.Title,
		Goal:          d.Goal,
		TargetDate:    d.TargetDate,
		Tasks:         d.Tasks,
		ScheduleData:  d.ScheduleData,
		CreatedBy:     userID,
		Collaborators: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.rows[p.ID] = p
	cp := p.Clone()
	return &cp, nil
}

func (s *ProjectStore) Update(_ context.Context, userID, id string, d domain.Draft) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || p.CreatedBy != userID {
		return nil, apperrors.New(apperrors.KindAccessDenied, "project not found or not owned by you")
	}
	p.Title, p.Goal, p.TargetDate = d.Title, d.Goal, d.TargetDate
	p.Tasks, p.ScheduleData = d.Tasks, d.ScheduleData
	p.UpdatedAt = s.tick()
	s.rows[id] = p
	cp := p.Clone()
	return &cp, nil
}

func (s *ProjectStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || p.CreatedBy != userID {
		return apperrors.New(apperrors.KindAccessDenied, "project not found or not owned by you")
	}
	delete(s.rows, id)
	return nil
}

func (s *ProjectStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}
