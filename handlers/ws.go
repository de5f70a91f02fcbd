package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/sirupsen/logrus"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// WEBSOCKET HUB
//
// One melody instance, rooms keyed by project ID. Clients connect to a
// project room after the usual membership check; mutations on projects and
// tasks are pushed to everyone watching that project.
// ============================================================================

const wsProjectKey = "project_id"

type WSHub struct {
	M     *melody.Melody
	Guard *services.ProjectGuard
	Log   *logrus.Logger
}

func NewWSHub(guard *services.ProjectGuard, log *logrus.Logger) *WSHub {
	m := melody.New()
	m.Config.MaxMessageSize = 1024

	hub := &WSHub{M: m, Guard: guard, Log: log}

	m.HandleConnect(func(s *melody.Session) {
		if id, ok := s.Get(wsProjectKey); ok {
			log.WithField("project_id", id).Debug("ws client joined project room")
		}
	})
	// Inbound frames are ignored; the socket is server-push only.
	m.HandleMessage(func(s *melody.Session, msg []byte) {})

	return hub
}

// Serve upgrades GET /ws/projects/:id after verifying membership.
func (h *WSHub) Serve(c *gin.Context) {
	projectID := c.Param("id")
	userID := middleware.GetUserID(c)

	if _, err := h.Guard.ResolveProject(c.Request.Context(), projectID, userID); err != nil {
		utils.Fail(c, err)
		return
	}

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		wsProjectKey: projectID,
	})
	if err != nil {
		h.Log.WithError(err).Warn("websocket upgrade failed")
		c.AbortWithStatus(http.StatusBadRequest)
	}
}

// BroadcastProject pushes an event to every session in the project's room.
func (h *WSHub) BroadcastProject(projectID, event string, payload interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(gin.H{"event": event, "projectId": projectID, "data": payload})
	if err != nil {
		h.Log.WithError(err).Warn("failed to encode ws event")
		return
	}
	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := s.Get(wsProjectKey)
		return ok && id == projectID
	})
	if err != nil {
		h.Log.WithError(err).Warn("ws broadcast failed")
	}
}

func (h *WSHub) Close() {
	_ = h.M.Close()
}
