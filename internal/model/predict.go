// /predict 요청/응답 및 예측 로그 구조체 정의
// handler, service, db 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의

package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kube-rca/incident-classifier/internal/feature"
)

// PredictRequest - 알림 레코드 (모든 필드 optional)
type PredictRequest struct {
	// 알림 발생 소스 (예: "zabbix", "prometheus")
	Source *string `json:"source"`

	// 환경 (예: "prod", "staging")
	Environment *string `json:"environment"`

	// 심각도 (예: "critical", "warning")
	Severity *string `json:"severity"`

	// 메트릭 이름 (예: "cpu_high")
	MetricName *string `json:"metric_name"`

	// CI(configuration item) 식별자 (예: "app-01"). 알파벳 prefix만 모델에 사용
	CI *string `json:"ci"`

	// 점검(maintenance) 여부. bool 또는 문자열 ("true", "TRUE")
	Maintenance *Flag `json:"maintenance" swaggertype:"boolean"`

	// 초기 버전 클라이언트가 보내는 오타 키. maintenance가 없을 때만 사용
	LegacyMaintenance *Flag `json:"maintenace,omitempty" swaggerignore:"true"`
}

// ToAlert - 인코더 입력으로 변환
func (r PredictRequest) ToAlert() feature.Alert {
	maintenance := r.Maintenance
	if maintenance == nil {
		maintenance = r.LegacyMaintenance
	}
	return feature.Alert{
		Source:      r.Source,
		Environment: r.Environment,
		Severity:    r.Severity,
		MetricName:  r.MetricName,
		CI:          r.CI,
		Maintenance: maintenance.String(),
	}
}

// Flag - bool 또는 문자열로 전달되는 maintenance 값
// 원본 문자열 표현을 유지하고 해석은 인코더에서 수행
type Flag struct {
	raw string
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		f.raw = ""
		return nil
	case trimmed == "true" || trimmed == "false":
		f.raw = trimmed
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.raw = s
		return nil
	default:
		return fmt.Errorf("maintenance must be a boolean or string, got %s", trimmed)
	}
}

func (f *Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// String - nil이면 "" (값 없음)
func (f *Flag) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

// PredictResponse - 분류 결과
type PredictResponse struct {
	IsIncident        bool    `json:"is_incident"`
	Probability       float64 `json:"probability"`
	DecisionThreshold float64 `json:"decision_threshold"`
}

// PredictionLog - prediction_logs 테이블 한 행
type PredictionLog struct {
	RequestID      string
	Source         *string
	Environment    *string
	Severity       *string
	MetricName     *string
	CI             *string
	CITratado      string
	MaintenanceInt int
	Features       []float64
	Probability    float64
	IsIncident     bool
	Threshold      float64
	CreatedAt      time.Time
}
