package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/assistant"
)

type askRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Intent string `json:"intent"`
}

type zoneStatusResponse struct {
	ChildID    string     `json:"child_id"`
	Status     string     `json:"status"`
	ZoneName   *string    `json:"zone_name"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	CapturedAt *time.Time `json:"captured_at"`
}

func (a *App) askAssistant(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Bearer token required")
		return
	}

	var payload askRequest
	if !mustJSON(c, &payload) {
		return
	}
	userID := strings.TrimSpace(payload.UserID)
	question := strings.TrimSpace(payload.Question)
	if userID == "" || question == "" {
		writeError(c, http.StatusBadRequest, "user_id and question are required")
		return
	}
	if userID != user.ID {
		writeError(c, http.StatusForbidden, "user_id does not match the authenticated user")
		return
	}

	answer, err := a.assistant.Ask(c.Request.Context(), userID, question)
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidInput) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to answer question")
		writeError(c, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	c.JSON(http.StatusOK, askResponse{Answer: answer.Text, Intent: string(answer.Intent)})
}

func (a *App) zoneStatus(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Bearer token required")
		return
	}
	childID := strings.TrimSpace(c.Param("child_id"))

	report, err := a.assistant.ZoneStatus(c.Request.Context(), user.ID, childID)
	switch {
	case errors.Is(err, assistant.ErrChildNotFound):
		writeError(c, http.StatusNotFound, "Child not found")
		return
	case errors.Is(err, assistant.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("user_id", user.ID).Str("child_id", childID).Msg("Failed to evaluate safe zones")
		writeError(c, http.StatusInternalServerError, "Failed to evaluate safe zones")
		return
	}

	response := zoneStatusResponse{
		ChildID:    report.ChildID,
		Status:     string(report.Status),
		Latitude:   report.Latitude,
		Longitude:  report.Longitude,
		CapturedAt: report.CapturedAt,
	}
	if report.ZoneName != "" {
		name := report.ZoneName
		response.ZoneName = &name
	}
	c.JSON(http.StatusOK, response)
}
