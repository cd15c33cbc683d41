package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-classifier/internal/feature"
)

func TestPredictRequestMaintenanceForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bool-true", body: `{"maintenance": true}`, want: "true"},
		{name: "bool-false", body: `{"maintenance": false}`, want: "false"},
		{name: "string-upper", body: `{"maintenance": "TRUE"}`, want: "TRUE"},
		{name: "null", body: `{"maintenance": null}`, want: ""},
		{name: "absent", body: `{}`, want: ""},
		{name: "legacy-key", body: `{"maintenace": true}`, want: "true"},
		{name: "both-keys", body: `{"maintenance": false, "maintenace": true}`, want: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PredictRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.ToAlert().Maintenance)
		})
	}
}

func TestPredictRequestRejectsWrongTypes(t *testing.T) {
	for _, body := range []string{
		`{"maintenance": 1}`,
		`{"maintenance": {"on": true}}`,
		`{"source": 42}`,
		`{"ci": ["app"]}`,
	} {
		var req PredictRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestPredictRequestToAlert(t *testing.T) {
	var req PredictRequest
	body := `{"source":"zabbix","environment":"prod","severity":"critical","metric_name":"cpu_high","ci":"app-01","maintenance":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	alert := req.ToAlert()
	require.NotNil(t, alert.Source)
	assert.Equal(t, "zabbix", *alert.Source)
	assert.Equal(t, "app-01", *alert.CI)
	assert.Equal(t, 1, feature.MaintenanceInt(alert.Maintenance))
	assert.Nil(t, PredictRequest{}.ToAlert().Source)
}
