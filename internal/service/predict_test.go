package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kube-rca/incident-classifier/internal/classifier"
	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/metrics"
	"github.com/kube-rca/incident-classifier/internal/model"
	"github.com/kube-rca/incident-classifier/internal/testutil"
)

type fakeRecorder struct {
	mu   sync.Mutex
	logs []model.PredictionLog
	err  error
}

func (f *fakeRecorder) RecordPrediction(ctx context.Context, log model.PredictionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, log)
	return f.err
}

func scenarioAlert(maintenance string) feature.Alert {
	return feature.Alert{
		Source:      testutil.StringPtr("zabbix"),
		Environment: testutil.StringPtr("prod"),
		Severity:    testutil.StringPtr("critical"),
		MetricName:  testutil.StringPtr("cpu_high"),
		CI:          testutil.StringPtr("app-01"),
		Maintenance: maintenance,
	}
}

func newTestService(t *testing.T, loader ArtifactLoader, recorder PredictionRecorder) *PredictService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := metrics.New("test")
	return NewPredictService(NewArtifacts(loader, time.Minute, m, logger), recorder, m, logger)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		probability float64
		want        bool
	}{
		{probability: 0, want: false},
		{probability: 0.40, want: false},
		{probability: 0.7499999, want: false},
		{probability: 0.75, want: true},
		{probability: 0.92, want: true},
		{probability: 1, want: true},
	}

	for _, tt := range tests {
		d := Decide(tt.probability)
		assert.Equal(t, tt.want, d.IsIncident, "probability %v", tt.probability)
		assert.Equal(t, DecisionThreshold, d.Threshold)
		assert.Equal(t, tt.probability, d.Probability)
	}
}

func TestPredictScenarios(t *testing.T) {
	tests := []struct {
		name        string
		maintenance string
		probability float64
		want        model.PredictResponse
	}{
		{
			name:        "incident",
			maintenance: "false",
			probability: 0.92,
			want:        model.PredictResponse{IsIncident: true, Probability: 0.92, DecisionThreshold: 0.75},
		},
		{
			name:        "maintenance-window",
			maintenance: "true",
			probability: 0.40,
			want:        model.PredictResponse{IsIncident: false, Probability: 0.40, DecisionThreshold: 0.75},
		},
		{
			name:        "boundary",
			maintenance: "false",
			probability: 0.75,
			want:        model.PredictResponse{IsIncident: true, Probability: 0.75, DecisionThreshold: 0.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &testutil.StaticClassifier{Probability: tt.probability}
			svc := newTestService(t, &testutil.Loader{Classifier: clf}, nil)

			decision, err := svc.Predict(context.Background(), "req-1", scenarioAlert(tt.maintenance))
			require.NoError(t, err)
			assert.Equal(t, tt.want, decision.Response())

			features := clf.Last()
			require.Len(t, features, feature.FeatureWidth)
			assert.Equal(t, float64(feature.MaintenanceInt(tt.maintenance)), features[feature.FeatureWidth-1])
		})
	}
}

func TestPredictUnknownSourceStillDecides(t *testing.T) {
	clf := &testutil.StaticClassifier{Probability: 0.3}
	svc := newTestService(t, &testutil.Loader{Classifier: clf}, nil)

	alert := scenarioAlert("false")
	alert.Source = testutil.StringPtr("never-seen-before")
	decision, err := svc.Predict(context.Background(), "req-1", alert)
	require.NoError(t, err)
	assert.False(t, decision.IsIncident)

	for i, x := range clf.Last()[:5] {
		assert.Zero(t, x, "source column %d", i)
	}
}

func TestPredictModelUnavailable(t *testing.T) {
	loader := &testutil.Loader{}
	svc := newTestService(t, loader, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Predict(context.Background(), "req-1", scenarioAlert("false"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.ErrorIs(t, err, ErrArtifactMissing)
	}
	// retry interval 안에서는 재로드하지 않음
	assert.Equal(t, 1, loader.Loads())
}

func TestPredictVocabularyMissing(t *testing.T) {
	loader := &testutil.Loader{VocabErr: errors.New("open bin/ohe_category_map.json: no such file or directory")}
	svc := newTestService(t, loader, nil)

	_, err := svc.Predict(context.Background(), "req-1", scenarioAlert("false"))
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "vocabulary")
}

func TestPredictDimensionMismatch(t *testing.T) {
	values := testutil.VocabularyValues()
	values[feature.FieldSeverity] = values[feature.FieldSeverity][:4]
	clf := &testutil.StaticClassifier{Probability: 0.9}
	svc := newTestService(t, &testutil.Loader{Values: values, Classifier: clf}, nil)

	_, err := svc.Predict(context.Background(), "req-1", scenarioAlert("false"))
	require.ErrorIs(t, err, feature.ErrVectorDimension)
	assert.Zero(t, clf.Calls(), "classifier must not see a wrong-width vector")
}

func TestPredictClassifierError(t *testing.T) {
	clf := &testutil.StaticClassifier{Probability: 1.5}
	svc := newTestService(t, &testutil.Loader{Classifier: clf}, nil)

	_, err := svc.Predict(context.Background(), "req-1", scenarioAlert("false"))
	require.ErrorIs(t, err, ErrPrediction)
	assert.ErrorIs(t, err, classifier.ErrInvalidProbability)
}

func TestPredictRecordsDecision(t *testing.T) {
	recorder := &fakeRecorder{}
	clf := &testutil.StaticClassifier{Probability: 0.92}
	svc := newTestService(t, &testutil.Loader{Classifier: clf}, recorder)

	_, err := svc.Predict(context.Background(), "req-42", scenarioAlert("true"))
	require.NoError(t, err)

	require.Len(t, recorder.logs, 1)
	log := recorder.logs[0]
	assert.Equal(t, "req-42", log.RequestID)
	assert.Equal(t, "app", log.CITratado)
	assert.Equal(t, 1, log.MaintenanceInt)
	assert.Len(t, log.Features, feature.FeatureWidth)
	assert.True(t, log.IsIncident)
	assert.Equal(t, DecisionThreshold, log.Threshold)
}

func TestPredictRecorderFailureIgnored(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("connection refused")}
	svc := newTestService(t, &testutil.Loader{Classifier: &testutil.StaticClassifier{Probability: 0.1}}, recorder)

	decision, err := svc.Predict(context.Background(), "req-1", scenarioAlert("false"))
	require.NoError(t, err)
	assert.False(t, decision.IsIncident)
}
