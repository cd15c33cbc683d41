package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-classifier/internal/config"
)

func TestPredictionInsertQueryPlaceholders(t *testing.T) {
	query := predictionInsertQuery()
	assert.Contains(t, query, "$13")
	assert.NotContains(t, query, "$14")
}

func TestPredictionSchemaVectorWidth(t *testing.T) {
	queries := predictionSchemaQueries()
	require.NotEmpty(t, queries)
	assert.True(t, strings.Contains(strings.Join(queries, "\n"), "vector(37)"))
}

func TestFeatureVector(t *testing.T) {
	vec := featureVector([]float64{1, 0, 0, 1})
	assert.Equal(t, []float32{1, 0, 0, 1}, vec.Slice())
}

func TestConnString(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PostgresConfig
		want    string
		wantErr bool
	}{
		{
			name: "database-url-wins",
			cfg:  config.PostgresConfig{DatabaseURL: "postgres://u@db/x", User: "ignored", Database: "ignored"},
			want: "postgres://u@db/x",
		},
		{
			name: "parts",
			cfg:  config.PostgresConfig{User: "clf", Password: "s3cret", Database: "predictions", Host: "pg", Port: "6543", SSLMode: "require"},
			want: "postgres://clf:s3cret@pg:6543/predictions?sslmode=require",
		},
		{
			name: "defaults",
			cfg:  config.PostgresConfig{User: "clf", Database: "predictions"},
			want: "postgres://clf@localhost:5432/predictions?sslmode=disable",
		},
		{
			name:    "missing-user",
			cfg:     config.PostgresConfig{Database: "predictions"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := connString(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPoolConfig(t *testing.T) {
	poolCfg, err := poolConfig(config.PostgresConfig{
		DatabaseURL:     "postgres://clf@pg:5432/predictions?sslmode=disable",
		MaxConns:        3,
		ApplicationName: "ml-ti-incident-classifier",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(3), poolCfg.MaxConns)
	assert.Equal(t, "ml-ti-incident-classifier", poolCfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "pg", poolCfg.ConnConfig.Host)
}
