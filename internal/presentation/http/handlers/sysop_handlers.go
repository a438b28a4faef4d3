package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scalerlabs/funnel-engine-go/internal/application/container"
	"github.com/scalerlabs/funnel-engine-go/internal/application/services"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// SysOpHandlers handles operator dashboard authentication and stats
type SysOpHandlers struct {
	container *container.Container
}

// NewSysOpHandlers creates new SysOp handlers
func NewSysOpHandlers(container *container.Container) *SysOpHandlers {
	return &SysOpHandlers{
		container: container,
	}
}

// AuthCheck reports whether sysop access is configured and the caller's token state
func (h *SysOpHandlers) AuthCheck(c *gin.Context) {
	response := gin.H{
		"passwordRequired": config.SysOpPasswordHash != "",
		"authenticated":    false,
	}

	if config.SysOpPasswordHash == "" {
		response["message"] = "Set SYSOP_PASSWORD_HASH to enable the operator dashboard"
	}

	if token := bearerToken(c); token != "" {
		if err := h.container.SysOpService.Authenticate(token); err == nil {
			response["authenticated"] = true
		}
	}

	c.JSON(http.StatusOK, response)
}

// Login handles SysOp authentication
func (h *SysOpHandlers) Login(c *gin.Context) {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.container.SysOpService.Login(request.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// SysOpAuthMiddleware guards the authenticated dashboard endpoints
func (h *SysOpHandlers) SysOpAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if err := h.container.SysOpService.Authenticate(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// GetStats returns the live funnel snapshot
func (h *SysOpHandlers) GetStats(c *gin.Context) {
	stats, err := h.container.SysOpService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLogLevels returns the effective level per log channel
func (h *SysOpHandlers) GetLogLevels(c *gin.Context) {
	levels := make(map[string]string)
	for _, channel := range logging.AllChannels() {
		levels[string(channel)] = h.container.Logger.ChannelLevel(channel).String()
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// SetLogLevel overrides one channel's log level at runtime
func (h *SysOpHandlers) SetLogLevel(c *gin.Context) {
	var request struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel and level are required"})
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(request.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown level"})
		return
	}

	if err := h.container.Logger.SetChannelLevel(logging.Channel(request.Channel), level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set level"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
