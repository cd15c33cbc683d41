package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestReadAlertInput(t *testing.T) {
	raw, err := readAlertInput(strings.NewReader(`{"source":"stdin"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"source":"stdin"}`, string(raw))

	raw, err = readAlertInput(strings.NewReader("ignored"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "ignored", string(raw))

	raw, err = readAlertInput(nil, []string{` {"source":"arg"} `})
	require.NoError(t, err)
	assert.Equal(t, `{"source":"arg"}`, string(raw))

	path := filepath.Join(t.TempDir(), "alert.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source":"file"}`), 0o600))
	raw, err = readAlertInput(nil, []string{"@" + path})
	require.NoError(t, err)
	assert.Equal(t, `{"source":"file"}`, string(raw))
}

func TestParseAlert(t *testing.T) {
	alert, err := parseAlert([]byte(checkAlert))
	require.NoError(t, err)
	require.NotNil(t, alert.CI)
	assert.Equal(t, "app-01", *alert.CI)
	assert.Equal(t, "false", alert.Maintenance)

	alert, err = parseAlert([]byte(`{"maintenace":"TRUE"}`))
	require.NoError(t, err)
	assert.Equal(t, "TRUE", alert.Maintenance)
	assert.Nil(t, alert.Source)

	_, err = parseAlert([]byte(`{"maintenance":1}`))
	assert.ErrorContains(t, err, "invalid payload")
}

func TestHashAPIKey(t *testing.T) {
	_, err := hashAPIKey("short", bcrypt.MinCost)
	assert.Error(t, err)

	hash, err := hashAPIKey("  alertmanager-secret-key\n", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("alertmanager-secret-key")))
}
