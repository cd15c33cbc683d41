// /predict 요청을 처리하는 핸들러
//
// 요청 흐름:
//  1. JSON 페이로드를 PredictRequest로 파싱 (타입 오류는 400, 인코더까지 가지 않음)
//  2. service 레이어에서 인코딩 + 분류 + threshold 적용
//  3. 모델 사용 불가 / 벡터 차원 오류는 500 + error 메시지

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/model"
	"github.com/kube-rca/incident-classifier/internal/service"
)

// predictor - 서비스 인터페이스
type predictor interface {
	Predict(ctx context.Context, requestID string, alert feature.Alert) (service.Decision, error)
}

type PredictHandler struct {
	svc    predictor
	logger *zap.Logger
}

func NewPredictHandler(svc predictor, logger *zap.Logger) *PredictHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{svc: svc, logger: logger}
}

// Predict godoc
// @Summary Classify an alert as incident / not incident
// @Tags predict
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param request body model.PredictRequest true "Alert record"
// @Success 200 {object} model.PredictResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid payload: " + err.Error()})
		return
	}

	requestID := GetRequestID(c)
	decision, err := h.svc.Predict(c.Request.Context(), requestID, req.ToAlert())
	if err != nil {
		h.logger.Error("Prediction failed",
			zap.String("request_id", requestID),
			zap.String("subject", authSubject(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: predictErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, decision.Response())
}

// predictErrorMessage - 응답 본문용 고정 메시지 (경로/OS 에러 원문은 로그에만 남김)
func predictErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrModelUnavailable):
		return service.ErrModelUnavailable.Error()
	case errors.Is(err, feature.ErrVectorDimension):
		return "feature vectorization failed"
	default:
		return "prediction failed"
	}
}
