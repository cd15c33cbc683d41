// 학습 파이프라인이 만든 범주형 피처 사전(Category Vocabulary)
//
// 아티팩트 형식:
//   - JSON (.json): {"source": ["zabbix", "prometheus"], "environment": [...], ...}
//   - YAML (.yaml, .yml): 같은 구조
//
// 다섯 개 필드(source, environment, severity, metric_name, ci_tratado)를 정확히 포함해야 함
// 로드 이후에는 읽기 전용이며 모든 요청이 공유

package feature

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FieldSource      = "source"
	FieldEnvironment = "environment"
	FieldSeverity    = "severity"
	FieldMetricName  = "metric_name"
	FieldCITratado   = "ci_tratado"
)

// one-hot 블록 순서 (모델 학습 시 컬럼 순서와 동일해야 함)
var categoricalFields = [...]string{
	FieldSource,
	FieldEnvironment,
	FieldSeverity,
	FieldMetricName,
	FieldCITratado,
}

// Fields returns the categorical fields in encoding order.
func Fields() []string {
	out := make([]string, len(categoricalFields))
	copy(out, categoricalFields[:])
	return out
}

// Vocabulary - 필드별 알려진 값 목록 (순서 = one-hot 인덱스)
type Vocabulary struct {
	values map[string][]string
	index  map[string]map[string]int
}

// NewVocabulary - 필드 구성 검증 후 Vocabulary 생성
// 입력 맵은 복사되므로 호출자가 이후에 수정해도 영향 없음
func NewVocabulary(values map[string][]string) (*Vocabulary, error) {
	for field := range values {
		if !isCategoricalField(field) {
			return nil, fmt.Errorf("unexpected vocabulary field %q", field)
		}
	}

	v := &Vocabulary{
		values: make(map[string][]string, len(categoricalFields)),
		index:  make(map[string]map[string]int, len(categoricalFields)),
	}
	for _, field := range categoricalFields {
		list, ok := values[field]
		if !ok {
			return nil, fmt.Errorf("vocabulary is missing field %q", field)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("vocabulary field %q has no categories", field)
		}

		idx := make(map[string]int, len(list))
		for i, value := range list {
			if _, dup := idx[value]; dup {
				return nil, fmt.Errorf("vocabulary field %q has duplicate category %q", field, value)
			}
			idx[value] = i
		}

		copied := make([]string, len(list))
		copy(copied, list)
		v.values[field] = copied
		v.index[field] = idx
	}
	return v, nil
}

// LoadVocabulary reads a vocabulary artifact from disk.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	v, err := ParseVocabulary(data, format)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary %s: %w", path, err)
	}
	return v, nil
}

// ParseVocabulary decodes a vocabulary in the given format ("json", "yaml", "yml").
// Any other format is sniffed from the content.
func ParseVocabulary(data []byte, format string) (*Vocabulary, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	var values map[string][]string
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &values)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &values)
	default:
		if looksLikeJSON(trimmed) {
			err = json.Unmarshal(data, &values)
		} else {
			err = yaml.Unmarshal(data, &values)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	return NewVocabulary(values)
}

// Values - 필드의 카테고리 목록 복사본 반환
func (v *Vocabulary) Values(field string) []string {
	list := v.values[field]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func (v *Vocabulary) Size(field string) int {
	return len(v.values[field])
}

// Index - 값의 one-hot 인덱스. 사전에 없으면 false
func (v *Vocabulary) Index(field, value string) (int, bool) {
	i, ok := v.index[field][value]
	return i, ok
}

// Width - 이 사전으로 만들어지는 피처 벡터 폭 (one-hot 블록 합 + maintenance 컬럼)
func (v *Vocabulary) Width() int {
	width := 1
	for _, field := range categoricalFields {
		width += len(v.values[field])
	}
	return width
}

func isCategoricalField(field string) bool {
	for _, f := range categoricalFields {
		if f == field {
			return true
		}
	}
	return false
}

func looksLikeJSON(s string) bool {
	for _, ch := range s {
		if ch == '{' || ch == '[' {
			return true
		}
		if ch > ' ' {
			return false
		}
	}
	return false
}
