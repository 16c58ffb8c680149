package http

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
)

// maxImportBytes bounds an uploaded project file.
const maxImportBytes = 5 << 20

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

type saveReq struct {
	ID           string          `json:"id"`
	Goal         string          `json:"goal"`
	TargetDate   domain.Date     `json:"target_date"`
	Tasks        json.RawMessage `json:"tasks"`
	ScheduleData json.RawMessage `json:"schedule_data"`
}

func (r saveReq) payload() domain.Payload {
	return domain.Payload{
		Goal:         r.Goal,
		TargetDate:   r.TargetDate,
		Tasks:        r.Tasks,
		ScheduleData: r.ScheduleData,
	}
}

type stateResp struct {
	OK       bool             `json:"ok"`
	Projects []domain.Project `json:"projects"`
	Loading  bool             `json:"loading"`
	Error    *string          `json:"error"`
}
