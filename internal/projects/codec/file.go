// Package codec reads and writes the portable project file.
//
// The file is a UTF-8 JSON object with exactly the fields projectGoal,
// targetDate, tasks and ganttData. Names are fixed so files exported by
// earlier releases keep importing.
package codec

import (
	"encoding/json"
	"strings"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
)

const (
	// ContentType is the media type of an exported file.
	ContentType = "application/json"

	filenamePrefixLen = 50
	defaultFilename   = "project"
)

type fileContent struct {
	ProjectGoal string          `json:"projectGoal"`
	TargetDate  string          `json:"targetDate"`
	Tasks       json.RawMessage `json:"tasks"`
	GanttData   json.RawMessage `json:"ganttData"`
}

// Export serializes the portable fields of p.
func Export(p domain.Payload) ([]byte, error) {
	tasks, err := domain.NormalizeTasks(p.Tasks)
	if err != nil {
		return nil, err
	}
	gantt, err := domain.NormalizeSchedule(p.ScheduleData)
	if err != nil {
		return nil, err
	}
	if gantt == nil {
		gantt = json.RawMessage("null")
	}

	return json.MarshalIndent(fileContent{
		ProjectGoal: p.Goal,
		TargetDate:  p.TargetDate.String(),
		Tasks:       tasks,
		GanttData:   gantt,
	}, "", "  ")
}

// Import parses a project file. Unknown fields are ignored.
func Import(data []byte) (domain.Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return domain.Payload{}, apperrors.Validation("project file is not a JSON object")
	}

	var goal string
	if err := requireField(fields, "projectGoal", &goal); err != nil {
		return domain.Payload{}, err
	}
	if strings.TrimSpace(goal) == "" {
		return domain.Payload{}, apperrors.Validation("projectGoal must not be empty")
	}

	var rawDate string
	if err := requireField(fields, "targetDate", &rawDate); err != nil {
		return domain.Payload{}, err
	}
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return domain.Payload{}, err
	}

	tasks, ok := fields["tasks"]
	if !ok {
		return domain.Payload{}, apperrors.Validation("missing field tasks")
	}
	if !domain.IsJSONArray(tasks) {
		return domain.Payload{}, apperrors.Validation("tasks must be a list")
	}

	gantt := fields["ganttData"]
	if !domain.IsJSONNull(gantt) && !domain.IsJSONArray(gantt) {
		return domain.Payload{}, apperrors.Validation("ganttData must be a list or null")
	}

	normTasks, err := domain.NormalizeTasks(tasks)
	if err != nil {
		return domain.Payload{}, err
	}
	normGantt, err := domain.NormalizeSchedule(gantt)
	if err != nil {
		return domain.Payload{}, err
	}

	return domain.Payload{
		Goal:         goal,
		TargetDate:   date,
		Tasks:        normTasks,
		ScheduleData: normGantt,
	}, nil
}

// SuggestedFilename turns a goal or title into a download name: the first
// 50 characters with everything outside [A-Za-z0-9] replaced by '_'.
func SuggestedFilename(label string) string {
	runes := []rune(label)
	if len(runes) > filenamePrefixLen {
		runes = runes[:filenamePrefixLen]
	}
	if len(runes) == 0 {
		return defaultFilename + ".json"
	}

	var b strings.Builder
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ".json"
}

func requireField(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := fields[name]
	if !ok {
		return apperrors.Validation("missing field %s", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Validation("%s must be a string", name)
	}
	return nil
}
