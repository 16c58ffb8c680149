package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
)

func TestPredicates(t *testing.T) {
	p := domain.Project{ID: "p1", CreatedBy: "owner", Collaborators: []string{"collab", "collab"}}

	tests := []struct {
		name                       string
		user                       string
		read, write, deleteAllowed bool
	}{
		{name: "owner", user: "owner", read: true, write: true, deleteAllowed: true},
		{name: "collaborator", user: "collab", read: true},
		{name: "stranger", user: "stranger"},
		{name: "empty identity", user: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.read, CanRead(p, tt.user))
			assert.Equal(t, tt.write, CanWrite(p, tt.user))
			assert.Equal(t, tt.deleteAllowed, CanDelete(p, tt.user))
		})
	}
}

func TestEmptyOwnerNeverMatchesEmptyIdentity(t *testing.T) {
	p := domain.Project{ID: "p1", Collaborators: []string{""}}

	assert.False(t, CanRead(p, ""))
	assert.False(t, CanWrite(p, ""))
}
