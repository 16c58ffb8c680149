package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/codec"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/syncengine"
)

func (h *Handler) list(c *gin.Context) {
	ws := middleware.Workspace(c)
	c.JSON(http.StatusOK, toState(ws.Projects.Snapshot()))
}

func (h *Handler) refresh(c *gin.Context) {
	ws := middleware.Workspace(c)
	if err := ws.Projects.FetchAll(c.Request.Context()); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toState(ws.Projects.Snapshot()))
}

func (h *Handler) save(c *gin.Context) {
	var req saveReq
	if !bind(c, &req) {
		return
	}
	h.persist(c, req, strings.TrimSpace(req.ID))
}

func (h *Handler) update(c *gin.Context) {
	var req saveReq
	if !bind(c, &req) {
		return
	}
	h.persist(c, req, c.Param("id"))
}

func (h *Handler) persist(c *gin.Context, req saveReq, existingID string) {
	ws := middleware.Workspace(c)
	p, err := ws.Projects.Save(c.Request.Context(), syncengine.SaveInput{
		Goal:         req.Goal,
		TargetDate:   req.TargetDate,
		Tasks:        req.Tasks,
		ScheduleData: req.ScheduleData,
		ExistingID:   existingID,
	})
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}

	status := http.StatusOK
	if existingID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	ws := middleware.Workspace(c)
	if err := ws.Projects.DeleteOne(c.Request.Context(), c.Param("id")); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) load(c *gin.Context) {
	ws := middleware.Workspace(c)
	loaded, err := ws.Projects.LoadOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": loaded})
}

// export downloads a saved project as a file named after its title.
func (h *Handler) export(c *gin.Context) {
	ws := middleware.Workspace(c)
	loaded, err := ws.Projects.LoadOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	h.download(c, loaded.Payload, domain.Title(loaded.Goal))
}

// exportDraft downloads a plan that has not been saved.
func (h *Handler) exportDraft(c *gin.Context) {
	var req saveReq
	if !bind(c, &req) {
		return
	}
	draft, err := domain.NewDraft(req.payload())
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	h.download(c, draft.Payload, draft.Goal)
}

func (h *Handler) download(c *gin.Context, p domain.Payload, label string) {
	data, err := codec.Export(p)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, codec.SuggestedFilename(label)))
	c.Data(http.StatusOK, codec.ContentType, data)
}

// importFile parses an uploaded project file. Nothing is persisted; the
// caller saves the result explicitly.
func (h *Handler) importFile(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}

	p, err := codec.Import(data)
	if err != nil {
		h.logger.Debug("Rejected project file", zap.Error(err))
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p, "title": domain.Title(p.Goal)})
}

// readUpload returns the "file" form field of a multipart request, or the
// raw body otherwise.
func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, apperrors.Validation("missing file")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Validation("unreadable file")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxImportBytes+1))
		if err != nil || len(data) > maxImportBytes {
			return nil, apperrors.Validation("unreadable file")
		}
		return data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apperrors.Validation("file too large or unreadable")
	}
	return data, nil
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			apihttp.WriteError(c, err)
		} else {
			apihttp.WriteError(c, apperrors.Validation("invalid body"))
		}
		return false
	}
	return true
}

func toState(st syncengine.State) stateResp {
	resp := stateResp{OK: true, Projects: st.Projects, Loading: st.Loading}
	if st.LastError != nil {
		msg := st.LastError.Error()
		resp.Error = &msg
	}
	return resp
}
