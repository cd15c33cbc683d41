package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-classifier/internal/classifier"
	"github.com/kube-rca/incident-classifier/internal/feature"
)

// VocabularyValues returns a 37-wide category map (36 one-hot columns + maintenance).
func VocabularyValues() map[string][]string {
	return map[string][]string{
		feature.FieldSource:      {"zabbix", "prometheus", "datadog", "nagios", "elastic"},
		feature.FieldEnvironment: {"prod", "staging", "dev", "qa"},
		feature.FieldSeverity:    {"critical", "high", "medium", "low", "info"},
		feature.FieldMetricName: {
			"cpu_high", "memory_high", "disk_full", "latency_high", "error_rate",
			"http_5xx", "pod_restart", "network_loss", "queue_backlog", "heartbeat_missing",
		},
		feature.FieldCITratado: {
			"app", "db", "web", "api", "cache", "queue",
			"lb", "k", "storage", "auth", "batch", feature.UnknownCI,
		},
	}
}

// Vocabulary builds the standard test vocabulary.
func Vocabulary(t *testing.T) *feature.Vocabulary {
	t.Helper()

	vocab, err := feature.NewVocabulary(VocabularyValues())
	require.NoError(t, err)
	return vocab
}

// WriteVocabulary writes the standard vocabulary as JSON into a temp dir and returns its path.
func WriteVocabulary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ohe_category_map.json")
	data := `{
  "source": ["zabbix", "prometheus", "datadog", "nagios", "elastic"],
  "environment": ["prod", "staging", "dev", "qa"],
  "severity": ["critical", "high", "medium", "low", "info"],
  "metric_name": ["cpu_high", "memory_high", "disk_full", "latency_high", "error_rate",
    "http_5xx", "pod_restart", "network_loss", "queue_backlog", "heartbeat_missing"],
  "ci_tratado": ["app", "db", "web", "api", "cache", "queue", "lb", "k", "storage", "auth", "batch", "unknown_ci"]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

// StaticClassifier returns a fixed probability and remembers the last input.
type StaticClassifier struct {
	Probability float64
	Err         error

	mu    sync.Mutex
	last  []float64
	calls int
}

var _ classifier.Classifier = (*StaticClassifier)(nil)

func (c *StaticClassifier) PredictProba(features []float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = append([]float64(nil), features...)
	if c.Err != nil {
		return 0, c.Err
	}
	return classifier.CheckProbability(c.Probability)
}

func (c *StaticClassifier) Last() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.last...)
}

func (c *StaticClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Loader is an in-memory artifact loader.
type Loader struct {
	Values     map[string][]string
	Classifier classifier.Classifier
	VocabErr   error
	ModelErr   error

	mu    sync.Mutex
	loads int
}

// ErrNoModel mimics a missing classifier artifact.
var ErrNoModel = errors.New("open bin/xgb_champion_final.model: no such file or directory")

func (l *Loader) LoadVocabulary() (*feature.Vocabulary, error) {
	l.mu.Lock()
	l.loads++
	l.mu.Unlock()
	if l.VocabErr != nil {
		return nil, l.VocabErr
	}
	values := l.Values
	if values == nil {
		values = VocabularyValues()
	}
	return feature.NewVocabulary(values)
}

func (l *Loader) LoadClassifier() (classifier.Classifier, error) {
	if l.ModelErr != nil {
		return nil, l.ModelErr
	}
	if l.Classifier == nil {
		return nil, ErrNoModel
	}
	return l.Classifier, nil
}

// Loads counts LoadVocabulary calls (one per load attempt).
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func StringPtr(s string) *string {
	return &s
}
