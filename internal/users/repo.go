package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
)

// execer is the subset of *pgxpool.Pool the repo uses.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo stores user profiles keyed by Firebase UID.
type Repo struct {
	db execer
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const upsertProfile = `
insert into users (firebase_uid, email, display_name, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  updated_at = now();
`

// EnsureProfile creates or refreshes the profile row for id. Empty fields
// never overwrite stored values.
func (r *Repo) EnsureProfile(ctx context.Context, id domain.Identity) error {
	if id.ID == "" {
		return fmt.Errorf("firebase_uid required")
	}
	if _, err := r.db.Exec(ctx, upsertProfile, id.ID, id.Email, id.DisplayName); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
