// Package policy decides what an identity may do with a project.
//
// The store adapter applies the same rules as query filters and is the
// enforcement boundary; these predicates keep client expectations aligned
// with what the store will accept.
package policy

import "github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"

// CanRead reports whether userID owns p or collaborates on it.
func CanRead(p domain.Project, userID string) bool {
	if userID == "" {
		return false
	}
	if p.CreatedBy == userID {
		return true
	}
	for _, c := range p.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}

// CanWrite reports whether userID owns p. Collaborators are read-only.
func CanWrite(p domain.Project, userID string) bool {
	return userID != "" && p.CreatedBy == userID
}

// CanDelete is the same rule as CanWrite.
func CanDelete(p domain.Project, userID string) bool {
	return CanWrite(p, userID)
}
