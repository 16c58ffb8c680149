package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
)

const projectColumns = `id::text, title, goal, target_date, data, created_by, collaborators, created_at, updated_at`

// readFilter matches rows the user owns or collaborates on. $1 is the user id.
const readFilter = `(created_by = $1 OR $1 = ANY(collaborators))`

// ProjectRepository is the remote project store. Every statement is scoped by
// the acting user so that rows outside the access predicate are never touched.
type ProjectRepository struct {
	db    *sql.DB
	newID func() string
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db, newID: func() string { return uuid.New().String() }}
}

// storedData is the jsonb payload column.
type storedData struct {
	Tasks     json.RawMessage `json:"tasks"`
	GanttData json.RawMessage `json:"ganttData"`
}

// List returns every project the user can read, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	q := `SELECT ` + projectColumns + `
FROM projects
WHERE ` + readFilter + `
ORDER BY updated_at DESC;`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperrors.Unavailable(err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return out, nil
}

// Get returns one readable project. Missing and unreadable rows are both
// reported as ErrNotFound.
func (r *ProjectRepository) Get(ctx context.Context, userID, id string) (*domain.Project, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if !validID(id) {
		return nil, apperrors.New(apperrors.KindNotFound, "project not found")
	}

	q := `SELECT ` + projectColumns + `
FROM projects
WHERE id = $2::uuid AND ` + readFilter + `;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.KindNotFound, "project not found")
		}
		return nil, apperrors.Unavailable(err)
	}
	return p, nil
}

// Insert creates a project owned by userID with an empty collaborator set.
func (r *ProjectRepository) Insert(ctx context.Context, userID string, d domain.Draft) (*domain.Project, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	data, err := encodeData(d.Payload)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO projects (id, title, goal, target_date, data, created_by, collaborators, created_at, updated_at)
VALUES ($1::uuid, $2, $3, $4, $5, $6, '{}', now(), now())
RETURNING ` + projectColumns + `;`

	for i := 0; i < 3; i++ {
		p, err := scanProject(r.db.QueryRowContext(ctx, q, r.newID(), d.Title, d.Goal, d.TargetDate, data, userID))
		if err == nil {
			return p, nil
		}

		// unique violation on id → retry
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, apperrors.Unavailable(err)
	}

	return nil, apperrors.Unavailable(fmt.Errorf("failed to generate unique project id"))
}

// Update rewrites an owned project's payload. Zero matching rows, whether
// the id is unknown or owned by someone else, is ErrAccessDenied.
func (r *ProjectRepository) Update(ctx context.Context, userID, id string, d domain.Draft) (*domain.Project, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if !validID(id) {
		return nil, denied()
	}
	data, err := encodeData(d.Payload)
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE projects
SET title = $3, goal = $4, target_date = $5, data = $6, updated_at = now()
WHERE id = $1::uuid AND created_by = $2
RETURNING ` + projectColumns + `;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, userID, d.Title, d.Goal, d.TargetDate, data))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, denied()
		}
		return nil, apperrors.Unavailable(err)
	}
	return p, nil
}

// Delete removes an owned project. Zero affected rows is ErrAccessDenied.
func (r *ProjectRepository) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if !validID(id) {
		return denied()
	}

	const q = `DELETE FROM projects WHERE id = $1::uuid AND created_by = $2;`

	result, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return apperrors.Unavailable(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Unavailable(err)
	}
	if rowsAffected == 0 {
		return denied()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p    domain.Project
		raw  []byte
		data storedData
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Goal,
		&p.TargetDate,
		&raw,
		&p.CreatedBy,
		pq.Array(&p.Collaborators),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode project data: %w", err)
		}
	}
	if p.Tasks, err = domain.NormalizeTasks(data.Tasks); err != nil {
		return nil, err
	}
	if p.ScheduleData, err = domain.NormalizeSchedule(data.GanttData); err != nil {
		return nil, err
	}
	if p.Collaborators == nil {
		p.Collaborators = []string{}
	}
	return &p, nil
}

func encodeData(p domain.Payload) ([]byte, error) {
	b, err := json.Marshal(storedData{Tasks: p.Tasks, GanttData: p.ScheduleData})
	if err != nil {
		return nil, apperrors.Validation("encode project data: %v", err)
	}
	return b, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func denied() error {
	return apperrors.New(apperrors.KindAccessDenied, "project not found or not owned by you")
}
