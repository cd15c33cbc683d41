package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-classifier/internal/testutil"
)

func TestHealthEndpoints(t *testing.T) {
	// 모델이 없어도 liveness 는 200
	r := newTestRouter(t, &testutil.Loader{}, "")

	for _, path := range []string{"/", "/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok","service":"ml-ti-incident-classifier"}`, w.Body.String())
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	r := newTestRouter(t, &testutil.Loader{}, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"model artifacts unavailable"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), testutil.ErrNoModel.Error())

	r = newTestRouter(t, &testutil.Loader{Classifier: &testutil.StaticClassifier{Probability: 0.5}}, "")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestMetricsAndOpenAPI(t *testing.T) {
	r := newTestRouter(t, &testutil.Loader{Classifier: &testutil.StaticClassifier{Probability: 0.9}}, "")
	postPredict(r, `{"source":"splunk"}`, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `incident_classifier_predictions_total{outcome="incident"} 1`)
	assert.Contains(t, w.Body.String(), `incident_classifier_unknown_category_total{field="source"} 1`)
	assert.Contains(t, w.Body.String(), `incident_classifier_artifacts_loaded 1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/predict"`)
}
