package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
)

// MaxTitleLength is the title limit in UTF-16 code units.
const MaxTitleLength = 100

// Project is a saved plan as seen by one identity.
// Tasks and ScheduleData are opaque and carried verbatim.
type Project struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Goal          string          `json:"goal"`
	TargetDate    Date            `json:"target_date"`
	Tasks         json.RawMessage `json:"tasks"`
	ScheduleData  json.RawMessage `json:"schedule_data"`
	CreatedBy     string          `json:"created_by"`
	Collaborators []string        `json:"collaborators"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Payload is the store-agnostic part of a project.
type Payload struct {
	Goal         string          `json:"goal"`
	TargetDate   Date            `json:"target_date"`
	Tasks        json.RawMessage `json:"tasks"`
	ScheduleData json.RawMessage `json:"schedule_data"`
}

// Draft is a payload ready to be written, with its derived title.
type Draft struct {
	Title string
	Payload
}

// Loaded is the result of reading a single project for restore.
type Loaded struct {
	ID string `json:"id"`
	Payload
}

// Payload returns the portable fields of p.
func (p Project) Payload() Payload {
	return Payload{
		Goal:         p.Goal,
		TargetDate:   p.TargetDate,
		Tasks:        cloneRaw(p.Tasks),
		ScheduleData: cloneRaw(p.ScheduleData),
	}
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	out := p
	out.Tasks = cloneRaw(p.Tasks)
	out.ScheduleData = cloneRaw(p.ScheduleData)
	out.Collaborators = append([]string{}, p.Collaborators...)
	return out
}

// Title derives the display title from a goal: the first MaxTitleLength
// UTF-16 code units. A surrogate pair that would be split is dropped.
func Title(goal string) string {
	units := 0
	for i, r := range goal {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > MaxTitleLength {
			return goal[:i]
		}
		units += n
	}
	return goal
}

// NewDraft validates and normalizes a payload and derives its title.
func NewDraft(p Payload) (Draft, error) {
	if strings.TrimSpace(p.Goal) == "" {
		return Draft{}, apperrors.Validation("goal is required")
	}
	if p.TargetDate.IsZero() {
		return Draft{}, apperrors.Validation("target date is required")
	}
	tasks, err := NormalizeTasks(p.Tasks)
	if err != nil {
		return Draft{}, err
	}
	schedule, err := NormalizeSchedule(p.ScheduleData)
	if err != nil {
		return Draft{}, err
	}
	p.Tasks = tasks
	p.ScheduleData = schedule
	return Draft{Title: Title(p.Goal), Payload: p}, nil
}

// NormalizeTasks compacts a tasks list. Missing or null becomes [].
func NormalizeTasks(raw json.RawMessage) (json.RawMessage, error) {
	if IsJSONNull(raw) {
		return json.RawMessage("[]"), nil
	}
	if !IsJSONArray(raw) {
		return nil, apperrors.Validation("tasks must be a list")
	}
	return compact(raw)
}

// NormalizeSchedule compacts a schedule list. Missing or null becomes nil.
func NormalizeSchedule(raw json.RawMessage) (json.RawMessage, error) {
	if IsJSONNull(raw) {
		return nil, nil
	}
	if !IsJSONArray(raw) {
		return nil, apperrors.Validation("schedule data must be a list or null")
	}
	return compact(raw)
}

// IsJSONArray reports whether raw is a well-formed JSON array.
func IsJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}

// IsJSONNull reports whether raw is empty or the literal null.
func IsJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func compact(raw json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage{}, raw...)
}
