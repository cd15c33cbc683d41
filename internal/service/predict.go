// 알림 분류(incident 여부 판정) 비즈니스 로직
//
// 처리 흐름:
//  1. 아티팩트 핸들에서 인코더/분류기 조회 (없으면 ErrModelUnavailable)
//  2. 알림 레코드 -> 피처 벡터 (폭 37 검증)
//  3. 분류기로 class 1 확률 계산
//  4. probability >= 0.75 이면 incident
//  5. (옵션) prediction_logs 저장 - 실패해도 응답에는 영향 없음

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/metrics"
	"github.com/kube-rca/incident-classifier/internal/model"
)

// DecisionThreshold - incident 판정 기준 확률 (비즈니스 규칙, 설정 불가)
const DecisionThreshold = 0.75

const recordTimeout = 2 * time.Second

// ErrPrediction - 분류기 호출 실패 또는 잘못된 확률
var ErrPrediction = errors.New("prediction failed")

// Decision - 분류 결과
type Decision struct {
	IsIncident  bool
	Probability float64
	Threshold   float64
}

// Decide applies the business threshold. The boundary value counts as an incident.
func Decide(probability float64) Decision {
	return Decision{
		IsIncident:  probability >= DecisionThreshold,
		Probability: probability,
		Threshold:   DecisionThreshold,
	}
}

func (d Decision) Response() model.PredictResponse {
	return model.PredictResponse{
		IsIncident:        d.IsIncident,
		Probability:       d.Probability,
		DecisionThreshold: d.Threshold,
	}
}

// PredictionRecorder - 예측 결과 저장소 (prediction_logs)
type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, log model.PredictionLog) error
}

// PredictService 구조체 정의
type PredictService struct {
	artifacts *Artifacts
	recorder  PredictionRecorder
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// PredictService 객체 생성. recorder, metrics 는 nil 가능
func NewPredictService(artifacts *Artifacts, recorder PredictionRecorder, m *metrics.Metrics, logger *zap.Logger) *PredictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictService{
		artifacts: artifacts,
		recorder:  recorder,
		metrics:   m,
		logger:    logger,
	}
}

func (s *PredictService) Predict(ctx context.Context, requestID string, alert feature.Alert) (Decision, error) {
	start := time.Now()

	decision, vector, err := s.predict(alert)
	if err != nil {
		s.metrics.ObserveError(time.Since(start))
		return Decision{}, err
	}
	s.metrics.ObservePrediction(decision.IsIncident, decision.Probability, time.Since(start))
	s.metrics.IncUnknownCategory(vector.Unknown...)

	s.logger.Info("Predicted alert",
		zap.String("request_id", requestID),
		zap.String("ci_tratado", vector.CITratado),
		zap.Int("maintenance_int", vector.MaintenanceInt),
		zap.Ints("active_features", vector.Active()),
		zap.Strings("unknown_fields", vector.Unknown),
		zap.Float64("probability", decision.Probability),
		zap.Bool("is_incident", decision.IsIncident))

	s.record(ctx, requestID, alert, vector, decision)
	return decision, nil
}

func (s *PredictService) predict(alert feature.Alert) (Decision, feature.Vector, error) {
	m, err := s.artifacts.Get()
	if err != nil {
		return Decision{}, feature.Vector{}, err
	}

	vector, err := m.Encoder.Encode(alert)
	if err != nil {
		var dimErr *feature.DimensionError
		if errors.As(err, &dimErr) {
			s.logger.Error("Feature vector width mismatch",
				zap.Int("width", dimErr.Got),
				zap.Int("expected", dimErr.Want))
		}
		return Decision{}, feature.Vector{}, err
	}

	probability, err := m.Classifier.PredictProba(vector.Values)
	if err != nil {
		s.logger.Error("Classifier failed", zap.Error(err))
		return Decision{}, feature.Vector{}, fmt.Errorf("%w: %w", ErrPrediction, err)
	}

	return Decide(probability), vector, nil
}

func (s *PredictService) record(ctx context.Context, requestID string, alert feature.Alert, vector feature.Vector, decision Decision) {
	if s.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	err := s.recorder.RecordPrediction(ctx, model.PredictionLog{
		RequestID:      requestID,
		Source:         alert.Source,
		Environment:    alert.Environment,
		Severity:       alert.Severity,
		MetricName:     alert.MetricName,
		CI:             alert.CI,
		CITratado:      vector.CITratado,
		MaintenanceInt: vector.MaintenanceInt,
		Features:       vector.Values,
		Probability:    decision.Probability,
		IsIncident:     decision.IsIncident,
		Threshold:      decision.Threshold,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Failed to record prediction", zap.String("request_id", requestID), zap.Error(err))
	}
}
