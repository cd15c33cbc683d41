package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/model"
)

func predictionSchemaQueries() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS prediction_logs (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL,
			source TEXT,
			environment TEXT,
			severity TEXT,
			metric_name TEXT,
			ci TEXT,
			ci_tratado TEXT NOT NULL,
			maintenance_int SMALLINT NOT NULL,
			features vector(%d) NOT NULL,
			probability DOUBLE PRECISION NOT NULL,
			is_incident BOOLEAN NOT NULL,
			decision_threshold DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`, feature.FeatureWidth),
		`CREATE INDEX IF NOT EXISTS prediction_logs_created_at_idx ON prediction_logs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS prediction_logs_request_id_idx ON prediction_logs(request_id)`,
	}
}

// EnsurePredictionSchema - prediction_logs 테이블 생성 (없으면)
func (db *Postgres) EnsurePredictionSchema(ctx context.Context) error {
	for _, query := range predictionSchemaQueries() {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create prediction_logs schema: %w", err)
		}
	}
	return nil
}

func predictionInsertQuery() string {
	return `
		INSERT INTO prediction_logs (
			request_id, source, environment, severity, metric_name, ci,
			ci_tratado, maintenance_int, features, probability, is_incident, decision_threshold, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
}

// RecordPrediction - 예측 결과 한 건 저장
func (db *Postgres) RecordPrediction(ctx context.Context, log model.PredictionLog) error {
	_, err := db.Pool.Exec(ctx, predictionInsertQuery(),
		log.RequestID,
		log.Source,
		log.Environment,
		log.Severity,
		log.MetricName,
		log.CI,
		log.CITratado,
		log.MaintenanceInt,
		featureVector(log.Features),
		log.Probability,
		log.IsIncident,
		log.Threshold,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction log: %w", err)
	}
	return nil
}

// one-hot/0-1 값만 들어있어 float32 변환 손실 없음
func featureVector(values []float64) pgvector.Vector {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return pgvector.NewVector(out)
}
