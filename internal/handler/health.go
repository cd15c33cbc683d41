package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/model"
)

// readyUnavailable - /ready 503 응답 메시지
const readyUnavailable = "model artifacts unavailable"

// artifactWarmer - 아티팩트 로드 상태 확인용 인터페이스
type artifactWarmer interface {
	Warm() error
}

type HealthHandler struct {
	serviceName string
	artifacts   artifactWarmer
	logger      *zap.Logger
}

func NewHealthHandler(serviceName string, artifacts artifactWarmer, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{serviceName: serviceName, artifacts: artifacts, logger: logger}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Service: h.serviceName})
}

// 헬스체크 엔드포인트
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Ready godoc
// @Summary Readiness probe (model artifacts loaded)
// @Tags health
// @Produce json
// @Success 200 {object} model.ReadyResponse
// @Failure 503 {object} model.ReadyResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.artifacts.Warm(); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ReadyResponse{Status: "unavailable", Error: readyUnavailable})
		return
	}
	c.JSON(http.StatusOK, model.ReadyResponse{Status: "ready"})
}
