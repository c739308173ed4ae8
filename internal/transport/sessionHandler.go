package transport

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/viewport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// loadSession resolves :id for every route under /sessions/:id.
func (h *SessionHandler) loadSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, entity.CreateSessionResponse{
		ID:       sess.ID(),
		Snapshot: sess.Snapshot(),
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).Snapshot())
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Delete(id); err != nil {
		respondError(c, err, nil)
		return
	}
	if h.archive != nil {
		if err := h.archive.Purge(id); err != nil {
			logrus.WithField("session_id", id).Warnf("Failed to purge archive: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *SessionHandler) UploadImage(c *gin.Context) {
	sess := current(c)

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, fmt.Errorf("%w: no image file provided", entity.ErrInvalidFile), sess.Snapshot())
		return
	}
	if file.Size > h.maxUploadSize {
		respondError(c, fmt.Errorf("%w: file exceeds %d bytes", entity.ErrInvalidFile, h.maxUploadSize), sess.Snapshot())
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err), sess.Snapshot())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err), sess.Snapshot())
		return
	}

	snap, err := sess.Upload(data, file.Filename)
	if err != nil {
		respondError(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) RequestEdit(c *gin.Context) {
	sess := current(c)

	var req entity.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidRequest, err), sess.Snapshot())
		return
	}

	snap, err := sess.RequestEdit(c.Request.Context(), sanitizePrompt(req.Prompt))
	if err != nil {
		respondError(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) QuickEdit(c *gin.Context) {
	snap, err := current(c).QuickEdit(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) Undo(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).Undo())
}

func (h *SessionHandler) Redo(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).Redo())
}

func (h *SessionHandler) StartOver(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).StartOver())
}

func (h *SessionHandler) DismissError(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).DismissError())
}

func (h *SessionHandler) SetTool(c *gin.Context) {
	sess := current(c)

	var req entity.ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidRequest, err), sess.Snapshot())
		return
	}
	if req.Tool != "" && !req.Tool.Valid() {
		respondError(c, fmt.Errorf("%w: unknown tool %q", entity.ErrInvalidRequest, req.Tool), sess.Snapshot())
		return
	}

	snap := sess.Snapshot()
	if req.Tool != "" {
		snap = sess.SetTool(req.Tool)
	}
	if req.BrushSize != 0 {
		snap = sess.SetBrushSize(req.BrushSize)
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) ClearMask(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).ClearMask())
}

func (h *SessionHandler) GetMask(c *gin.Context) {
	raster, ok, err := current(c).MaskPNG()
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, raster.Encoding, raster.PixelData)
}

func (h *SessionHandler) HandlePointer(c *gin.Context) {
	sess := current(c)

	var ev entity.PointerEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidRequest, err), sess.Snapshot())
		return
	}
	switch ev.Kind {
	case entity.PointerDown, entity.PointerMove, entity.PointerUp, entity.PointerLeave:
	default:
		respondError(c, fmt.Errorf("%w: unknown pointer kind %q", entity.ErrInvalidRequest, ev.Kind), sess.Snapshot())
		return
	}
	if ev.Target == "" {
		ev.Target = entity.TargetMask
	}

	c.JSON(http.StatusOK, sess.HandlePointer(ev))
}

func (h *SessionHandler) Zoom(c *gin.Context) {
	sess := current(c)

	var req entity.ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidRequest, err), sess.Snapshot())
		return
	}

	switch req.Direction {
	case "":
		c.JSON(http.StatusOK, sess.Zoom(viewport.Point{X: req.PivotX, Y: req.PivotY}, req.DeltaY))
	case entity.ZoomIn, entity.ZoomOut:
		c.JSON(http.StatusOK, sess.ZoomStep(req.Direction))
	default:
		respondError(c, fmt.Errorf("%w: unknown zoom direction %q", entity.ErrInvalidRequest, req.Direction), sess.Snapshot())
	}
}

func (h *SessionHandler) ResetViewport(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).ResetViewport())
}

func (h *SessionHandler) GetImage(c *gin.Context) {
	state := current(c).Current()
	if state.Empty() {
		respondError(c, entity.ErrNothingToExport, nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, state.Encoding, state.PixelData)
}

func (h *SessionHandler) Download(c *gin.Context) {
	sess := current(c)

	name, data, err := sess.Download()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	if h.archive != nil {
		if err := h.archive.Archive(sess.ID(), name, data); err != nil {
			logrus.WithField("session_id", sess.ID()).Errorf("Failed to archive download: %v", err)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "image/png", data)
}

func (h *SessionHandler) Events(c *gin.Context) {
	if err := h.hub.Serve(c.Writer, c.Request, current(c)); err != nil {
		logrus.WithField("session_id", c.Param("id")).Warnf("Websocket upgrade failed: %v", err)
	}
}

func (h *SessionHandler) ListQuickEdits(c *gin.Context) {
	c.JSON(http.StatusOK, entity.QuickEdits())
}

func (h *SessionHandler) SessionEdits(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "edit journal is disabled"})
		return
	}
	records, err := h.journal.BySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SessionHandler) RecentEdits(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "edit journal is disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	records, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SessionHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(h.healthChecks))
	for name, check := range h.healthChecks {
		if err := check(); err != nil {
			checks[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":      status,
		"service":     "realtyedit",
		"sessions":    h.sessions.Count(),
		"connections": h.hub.Connections(),
		"checks":      checks,
	})
}

// Shutdown closes every open event stream.
func (h *SessionHandler) Shutdown() {
	h.hub.Close()
}
