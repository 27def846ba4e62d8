package handlers

import (
	"context"
	"net/http"
	"time"

	"lireddit/internal/db"
	"lireddit/internal/kv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	kv  *kv.Store
	log *zap.Logger
}

func NewHealthHandler(conn *gorm.DB, store *kv.Store, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: conn, kv: store, log: log}
}

// Check pings the database and the kv store.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, h.db); err != nil {
		h.log.Warn("Health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "database"})
		return
	}
	if !h.kv.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "kv"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
