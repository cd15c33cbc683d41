// 학습 파이프라인에서 내보낸 이진 분류기(gradient-boosted trees) 래퍼
//
// 모델 아티팩트:
//   - MODEL_PATH: XGBoost 바이너리 모델 (booster.save_model)
//   - objective는 binary:logistic 이어야 하며 출력은 class 1 확률

package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/dmitryikh/leaves"
)

var (
	ErrInvalidProbability = errors.New("classifier returned invalid probability")

	// ErrNotBinary - 출력 그룹이 1개가 아닌 모델 (multi:softmax 등)
	ErrNotBinary = errors.New("model is not a binary classifier")

	// ErrTooManyFeatures - 모델이 피처 벡터보다 넓은 입력을 요구함
	ErrTooManyFeatures = errors.New("model expects more features than the vector width")
)

// Classifier - class 1(incident) 확률을 반환하는 분류기
type Classifier interface {
	PredictProba(features []float64) (float64, error)
}

// XGBoost - leaves 기반 XGBoost 앙상블
type XGBoost struct {
	ensemble *leaves.Ensemble
	path     string
}

// LoadXGBoost loads a binary:logistic XGBoost model.
// maxFeatures is the width of the vectors the model will be fed.
func LoadXGBoost(path string, maxFeatures int) (*XGBoost, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat model %s: %w", path, err)
	}

	// loadTransformation=true: raw margin 대신 sigmoid가 적용된 확률 반환
	ensemble, err := leaves.XGEnsembleFromFile(path, true)
	if err != nil {
		// 다중 클래스 모델은 objective 단계에서 실패하므로 raw 로 다시 읽어 원인 구분
		if raw, rawErr := leaves.XGEnsembleFromFile(path, false); rawErr == nil && raw.NOutputGroups() != 1 {
			return nil, fmt.Errorf("%w: %s has %d output groups", ErrNotBinary, path, raw.NOutputGroups())
		}
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	if groups := ensemble.NOutputGroups(); groups != 1 {
		return nil, fmt.Errorf("%w: %s has %d output groups", ErrNotBinary, path, groups)
	}
	if n := ensemble.NFeatures(); n > maxFeatures {
		return nil, fmt.Errorf("%w: %s expects %d, vectors have %d", ErrTooManyFeatures, path, n, maxFeatures)
	}

	return &XGBoost{ensemble: ensemble, path: path}, nil
}

func (m *XGBoost) PredictProba(features []float64) (float64, error) {
	if len(features) < m.ensemble.NFeatures() {
		return 0, fmt.Errorf("model %s expects %d features, got %d", m.path, m.ensemble.NFeatures(), len(features))
	}

	var out [1]float64
	// nEstimators=0: 전체 트리 사용
	if err := m.ensemble.Predict(sparseInput(features), 0, out[:]); err != nil {
		return 0, fmt.Errorf("model %s: %w", m.path, err)
	}
	return CheckProbability(out[0])
}

// sparseInput - 0 컬럼을 NaN 으로 바꾼 복사본
// 학습 입력(CSR)에서 0 은 저장되지 않은 결측값이므로 split 의 default 방향을 따라야 함 (leaves 는 NaN 만 결측 처리)
func sparseInput(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		if x == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = x
	}
	return out
}

func (m *XGBoost) NFeatures() int {
	return m.ensemble.NFeatures()
}

func (m *XGBoost) NEstimators() int {
	return m.ensemble.NEstimators()
}

// CheckProbability rejects NaN and values outside [0,1].
func CheckProbability(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return p, nil
}
