// 서비스 설정 로드
//
// 우선순위: 환경변수 > 설정 파일(--config, YAML) > 기본값
// 키 이름은 환경변수 이름의 소문자 (예: MODEL_PATH -> model_path)

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Log           LogConfig
	Artifacts     ArtifactConfig
	Auth          AuthConfig
	PredictionLog PredictionLogConfig
	Postgres      PostgresConfig
}

type ServerConfig struct {
	ServiceName        string
	Port               string
	GinMode            string
	CORSAllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type ArtifactConfig struct {
	VocabularyPath string
	ModelPath      string
	RetryInterval  time.Duration
	EagerLoad      bool
}

type AuthConfig struct {
	JWTSecret string

	// APIKeyHash - bcrypt 해시. 정적 API 키 클라이언트(Alertmanager 등)용
	APIKeyHash string
}

func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != "" || c.APIKeyHash != ""
}

type PredictionLogConfig struct {
	Enabled bool
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string

	MaxConns        int32
	ApplicationName string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "ml-ti-incident-classifier")
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("vocabulary_path", "bin/ohe_category_map.json")
	v.SetDefault("model_path", "bin/xgb_champion_final.model")
	v.SetDefault("artifact_retry_interval", "30s")
	v.SetDefault("artifact_eager_load", true)
	v.SetDefault("auth_jwt_secret", "")
	v.SetDefault("auth_api_key_hash", "")
	v.SetDefault("prediction_log_enabled", false)
	v.SetDefault("database_url", "")
	v.SetDefault("pghost", "localhost")
	v.SetDefault("pgport", "5432")
	v.SetDefault("pguser", "")
	v.SetDefault("pgpassword", "")
	v.SetDefault("pgdatabase", "")
	v.SetDefault("pgsslmode", "disable")
	v.SetDefault("pg_max_conns", 4)
}

// Load reads configuration from the environment and, when path is set, a YAML file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	retry, err := parseRetryInterval(v.GetString("artifact_retry_interval"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: ServerConfig{
			ServiceName:        v.GetString("service_name"),
			Port:               v.GetString("port"),
			GinMode:            v.GetString("gin_mode"),
			CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Artifacts: ArtifactConfig{
			VocabularyPath: v.GetString("vocabulary_path"),
			ModelPath:      v.GetString("model_path"),
			RetryInterval:  retry,
			EagerLoad:      v.GetBool("artifact_eager_load"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth_jwt_secret"),
			APIKeyHash: v.GetString("auth_api_key_hash"),
		},
		PredictionLog: PredictionLogConfig{
			Enabled: v.GetBool("prediction_log_enabled"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: v.GetString("database_url"),
			Host:        v.GetString("pghost"),
			Port:        v.GetString("pgport"),
			User:        v.GetString("pguser"),
			Password:    v.GetString("pgpassword"),
			Database:    v.GetString("pgdatabase"),
			SSLMode:     v.GetString("pgsslmode"),

			MaxConns:        v.GetInt32("pg_max_conns"),
			ApplicationName: v.GetString("service_name"),
		},
	}, nil
}

// parseRetryInterval - GetDuration 은 잘못된 값을 0 으로 바꾸므로 직접 파싱
func parseRetryInterval(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid ARTIFACT_RETRY_INTERVAL %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid ARTIFACT_RETRY_INTERVAL %q: must not be negative", raw)
	}
	return d, nil
}

// splitList - 콤마 구분 문자열(환경변수)과 YAML 리스트 모두 허용
func splitList(items []string) []string {
	var out []string
	for _, raw := range items {
		for _, item := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
