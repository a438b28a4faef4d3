// Package handlers provides HTTP handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scalerlabs/funnel-engine-go/internal/application/services"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/challenge"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/messages"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/security"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// FunnelHandlers handles the visitor-facing funnel endpoints
type FunnelHandlers struct {
	engagement  *services.EngagementService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFunnelHandlers creates new funnel handlers
func NewFunnelHandlers(engagement *services.EngagementService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FunnelHandlers {
	return &FunnelHandlers{
		engagement:  engagement,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// respondFunnelError maps service errors onto HTTP statuses.
func respondFunnelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, challenge.ErrInvalidSubmission):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotScored):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, messages.ErrMissingTemplate):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message template missing"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// PostSession handles POST /api/v1/funnel/session
func (h *FunnelHandlers) PostSession(c *gin.Context) {
	var request struct {
		ResumeText string `json:"resumeText" binding:"required"`
		Email      string `json:"email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeText is required"})
		return
	}

	sess, counterValue, err := h.engagement.StartSession(request.ResumeText, request.Email)
	if err != nil {
		respondFunnelError(c, err)
		return
	}

	nugget, err := h.engagement.ComposeNugget(sess.ID)
	if err != nil {
		respondFunnelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":      sess,
		"participants": counterValue,
		"nugget":       nugget,
	})
}

// GetSession handles GET /api/v1/funnel/session/:id
func (h *FunnelHandlers) GetSession(c *gin.Context) {
	sess, err := h.engagement.GetSession(c.Param("id"))
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GetChallenge handles GET /api/v1/funnel/session/:id/challenge
func (h *FunnelHandlers) GetChallenge(c *gin.Context) {
	view, err := h.engagement.GetChallenge(c.Param("id"))
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostStartChallenge handles POST /api/v1/funnel/session/:id/challenge
func (h *FunnelHandlers) PostStartChallenge(c *gin.Context) {
	result, err := h.engagement.StartChallenge(c.Param("id"))
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostSubmit handles POST /api/v1/funnel/session/:id/submit
func (h *FunnelHandlers) PostSubmit(c *gin.Context) {
	var request struct {
		Text           string `json:"text"`
		ElapsedSeconds int    `json:"elapsedSeconds"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.engagement.ProcessSubmission(c.Param("id"), request.Text, request.ElapsedSeconds)
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostExit handles POST /api/v1/funnel/session/:id/exit
func (h *FunnelHandlers) PostExit(c *gin.Context) {
	var request struct {
		Email string `json:"email"`
	}
	// Body is optional; an empty exit signal carries no email.
	_ = c.ShouldBindJSON(&request)

	result, err := h.engagement.MarkExitIntent(c.Param("id"), request.Email)
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostResume handles POST /api/v1/funnel/session/:id/resume
func (h *FunnelHandlers) PostResume(c *gin.Context) {
	result, err := h.engagement.ResumeChallenge(c.Param("id"))
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostAbandon handles POST /api/v1/funnel/session/:id/abandon
func (h *FunnelHandlers) PostAbandon(c *gin.Context) {
	var request struct {
		Email string `json:"email"`
	}
	_ = c.ShouldBindJSON(&request)

	result, err := h.engagement.Abandon(c.Param("id"), request.Email)
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetNugget handles GET /api/v1/funnel/session/:id/nuggets
func (h *FunnelHandlers) GetNugget(c *gin.Context) {
	nugget, err := h.engagement.ComposeNugget(c.Param("id"))
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, nugget)
}

// GetClaim handles GET /api/v1/claim, verifying a discount claim token.
func (h *FunnelHandlers) GetClaim(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	sessionID, assignment, err := security.ValidateClaimToken(token, config.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired claim token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   sessionID,
		"tier":        assignment.Tier,
		"discountPct": assignment.DiscountPct,
	})
}

// GetEmailPreview handles GET /api/v1/funnel/session/:id/emails/:variant
func (h *FunnelHandlers) GetEmailPreview(c *gin.Context) {
	variant := messages.Variant(c.Param("variant"))
	if !variant.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown email variant"})
		return
	}

	rendered, err := h.engagement.PreviewEmail(c.Param("id"), variant)
	if err != nil {
		respondFunnelError(c, err)
		return
	}
	c.JSON(http.StatusOK, rendered)
}
