// 알림 레코드를 모델 입력 벡터로 변환하는 Feature Encoder
//
// 처리 흐름:
//  1. ci -> ci_tratado (NormalizeCI)
//  2. maintenance -> maintenance_int (MaintenanceInt)
//  3. source, environment, severity, metric_name, ci_tratado 순서로 one-hot 인코딩
//     - 사전에 없는 값은 블록 전체를 0으로 채움 (에러 아님)
//  4. 마지막 컬럼에 maintenance_int 추가
//  5. 벡터 폭이 FeatureWidth(37)가 아니면 DimensionError
//
// I/O 없음. 같은 입력은 항상 같은 벡터를 만든다.

package feature

import (
	"errors"
	"fmt"
	"strings"
)

// FeatureWidth - 학습된 모델이 기대하는 입력 차원
const FeatureWidth = 37

// UnknownCI - ci가 비어있거나 알파벳으로 시작하지 않을 때의 ci_tratado 값
const UnknownCI = "unknown_ci"

var ErrVectorDimension = errors.New("invalid feature vector dimension")

// DimensionError - 사전/모델 아티팩트 불일치로 벡터 폭이 어긋난 경우
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid feature vector width: %d, expected %d features", e.Got, e.Want)
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrVectorDimension
}

// Alert - 인코더 입력. nil 필드는 값 없음(null/미전송)을 의미
type Alert struct {
	Source      *string
	Environment *string
	Severity    *string
	MetricName  *string
	CI          *string

	// Maintenance - maintenance 값의 문자열 표현 ("true", "False", ...). 없으면 ""
	Maintenance string
}

// Vector - 인코딩 결과
type Vector struct {
	Values         []float64
	CITratado      string
	MaintenanceInt int

	// 사전에서 찾지 못해 0 블록으로 인코딩된 필드
	Unknown []string
}

func (v Vector) Width() int {
	return len(v.Values)
}

// Active returns the indices of non-zero columns.
func (v Vector) Active() []int {
	active := make([]int, 0, len(categoricalFields)+1)
	for i, x := range v.Values {
		if x != 0 {
			active = append(active, i)
		}
	}
	return active
}

type Encoder struct {
	vocab *Vocabulary
}

func NewEncoder(vocab *Vocabulary) *Encoder {
	return &Encoder{vocab: vocab}
}

// Encode converts one alert into the classifier input vector.
func (e *Encoder) Encode(alert Alert) (Vector, error) {
	ciTratado := NormalizeCI(alert.CI)
	maintenance := MaintenanceInt(alert.Maintenance)

	inputs := [...]*string{
		alert.Source,
		alert.Environment,
		alert.Severity,
		alert.MetricName,
		&ciTratado,
	}

	values := make([]float64, 0, e.vocab.Width())
	var unknown []string
	for i, field := range categoricalFields {
		block := make([]float64, e.vocab.Size(field))
		if inputs[i] != nil {
			if idx, ok := e.vocab.Index(field, *inputs[i]); ok {
				block[idx] = 1
			} else {
				unknown = append(unknown, field)
			}
		} else {
			unknown = append(unknown, field)
		}
		values = append(values, block...)
	}
	values = append(values, float64(maintenance))

	if len(values) != FeatureWidth {
		return Vector{}, &DimensionError{Got: len(values), Want: FeatureWidth}
	}

	return Vector{
		Values:         values,
		CITratado:      ciTratado,
		MaintenanceInt: maintenance,
		Unknown:        unknown,
	}, nil
}

// NormalizeCI - ci 원본 값에서 ci_tratado 생성
//   - nil 또는 공백뿐인 값 -> "unknown_ci"
//   - 소문자로 바꾼 뒤 앞쪽 알파벳 연속 구간 추출 ("app-7" -> "app", "DB-42" -> "db")
//   - 알파벳으로 시작하지 않으면 -> "unknown_ci" ("404-error")
func NormalizeCI(ci *string) string {
	if ci == nil || strings.TrimSpace(*ci) == "" {
		return UnknownCI
	}

	lowered := strings.ToLower(*ci)
	end := 0
	for end < len(lowered) && lowered[end] >= 'a' && lowered[end] <= 'z' {
		end++
	}
	if end == 0 {
		return UnknownCI
	}
	return lowered[:end]
}

// MaintenanceInt - 문자열 표현을 소문자로 바꿔 "true"이면 1, 그 외 0
func MaintenanceInt(maintenance string) int {
	if strings.ToLower(maintenance) == "true" {
		return 1
	}
	return 0
}
