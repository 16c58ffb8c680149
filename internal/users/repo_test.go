package users

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
)

type recordingExecer struct {
	sql  string
	args []any
	err  error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql, r.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func TestEnsureProfile(t *testing.T) {
	db := &recordingExecer{}
	repo := &Repo{db: db}

	err := repo.EnsureProfile(context.Background(), domain.Identity{ID: "uid-1", Email: "a@example.com", DisplayName: "Ada"})
	require.NoError(t, err)
	assert.Contains(t, db.sql, "on conflict (firebase_uid) do update")
	assert.Equal(t, []any{"uid-1", "a@example.com", "Ada"}, db.args)
}

func TestEnsureProfileErrors(t *testing.T) {
	db := &recordingExecer{err: errors.New("relation \"users\" does not exist")}
	repo := &Repo{db: db}

	assert.EqualError(t, repo.EnsureProfile(context.Background(), domain.Identity{}), "firebase_uid required")

	err := repo.EnsureProfile(context.Background(), domain.Identity{ID: "uid-1"})
	assert.ErrorContains(t, err, "upsert profile")
}
