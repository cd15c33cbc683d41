// 모델 아티팩트(카테고리 사전 + 분류기) 핸들
//
// 처리 흐름:
//  1. main에서 한 번 생성하여 PredictService에 주입
//  2. 첫 사용 시(또는 Warm 호출 시) 아티팩트 로드
//  3. 로드 성공: 프로세스 종료까지 재사용 (읽기 전용)
//  4. 로드 실패: 같은 에러를 모든 요청에 반환, retryInterval 경과 후 다음 요청에서 재시도
//
// 로드 실패해도 /health 는 계속 응답하고 /predict 만 500 반환

package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/classifier"
	"github.com/kube-rca/incident-classifier/internal/config"
	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/metrics"
)

var (
	// ErrArtifactMissing - 사전 또는 모델 파일이 없거나 손상됨
	ErrArtifactMissing = errors.New("model artifact missing or corrupt")

	// ErrModelUnavailable - 요청 시점에 아티팩트를 사용할 수 없음
	ErrModelUnavailable = errors.New("model artifacts unavailable")
)

// ArtifactLoader - 아티팩트 저장소
type ArtifactLoader interface {
	LoadVocabulary() (*feature.Vocabulary, error)
	LoadClassifier() (classifier.Classifier, error)
}

// FileArtifactLoader - 로컬 파일 시스템에서 아티팩트 로드
type FileArtifactLoader struct {
	VocabularyPath string
	ModelPath      string
}

func NewFileArtifactLoader(cfg config.ArtifactConfig) *FileArtifactLoader {
	return &FileArtifactLoader{
		VocabularyPath: cfg.VocabularyPath,
		ModelPath:      cfg.ModelPath,
	}
}

func (l *FileArtifactLoader) LoadVocabulary() (*feature.Vocabulary, error) {
	return feature.LoadVocabulary(l.VocabularyPath)
}

func (l *FileArtifactLoader) LoadClassifier() (classifier.Classifier, error) {
	return classifier.LoadXGBoost(l.ModelPath, feature.FeatureWidth)
}

// Model - 로드된 아티팩트 묶음
type Model struct {
	Encoder    *feature.Encoder
	Classifier classifier.Classifier
}

// Artifacts - 프로세스 범위의 읽기 전용 아티팩트 핸들
type Artifacts struct {
	loader        ArtifactLoader
	retryInterval time.Duration
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time

	mu       sync.Mutex
	model    *Model
	err      error
	failedAt time.Time
}

func NewArtifacts(loader ArtifactLoader, retryInterval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Artifacts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Artifacts{
		loader:        loader,
		retryInterval: retryInterval,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

// Get returns the loaded model, loading it on first use.
// 실패 시 ErrModelUnavailable 로 감싼 에러 반환
func (a *Artifacts) Get() (*Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model != nil {
		return a.model, nil
	}
	if a.err != nil && a.now().Sub(a.failedAt) < a.retryInterval {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, a.err)
	}

	model, err := a.load()
	if err != nil {
		a.err = err
		a.failedAt = a.now()
		a.metrics.SetArtifactsLoaded(false)
		a.logger.Error("Failed to load model artifacts", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	a.model = model
	a.err = nil
	a.metrics.SetArtifactsLoaded(true)
	return model, nil
}

// Warm loads the artifacts if they are not loaded yet (startup, readiness probe).
func (a *Artifacts) Warm() error {
	_, err := a.Get()
	return err
}

func (a *Artifacts) load() (*Model, error) {
	vocab, err := a.loader.LoadVocabulary()
	if err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %w", ErrArtifactMissing, err)
	}
	if width := vocab.Width(); width != feature.FeatureWidth {
		// 요청마다 DimensionError 로 실패하게 두고 여기서는 기록만
		a.logger.Error("Vocabulary does not match model input width",
			zap.Int("width", width),
			zap.Int("expected", feature.FeatureWidth))
	}

	clf, err := a.loader.LoadClassifier()
	if err != nil {
		return nil, fmt.Errorf("%w: classifier: %w", ErrArtifactMissing, err)
	}

	fields := []zap.Field{zap.Int("vocabulary_width", vocab.Width())}
	if sized, ok := clf.(interface{ NEstimators() int }); ok {
		fields = append(fields, zap.Int("estimators", sized.NEstimators()))
	}
	a.logger.Info("Loaded model artifacts", fields...)
	return &Model{
		Encoder:    feature.NewEncoder(vocab),
		Classifier: clf,
	}, nil
}
