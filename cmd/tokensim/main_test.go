package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/tokensim/internal/session"
)

const exampleConfig = "../../configs/example.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmdMain.SetOut(&out)
	cmdMain.SetErr(&bytes.Buffer{})
	cmdMain.SetArgs(args)
	err := cmdMain.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPreviewCommand_JSON(t *testing.T) {
	out, err := execute(t, "preview", "-c", exampleConfig, "-o", "json", "--compare=false")
	require.NoError(t, err)

	var p map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "DEMO", p["token"].(map[string]interface{})["symbol"])
	auth := p["authority"].(map[string]interface{})
	assert.Equal(t, "revoked", auth["mint"])
	assert.Equal(t, "revoked", auth["freeze"])
	assert.Equal(t, "enabled", auth["update"])
	assert.NotNil(t, p["launch"])
}

func TestPreviewCommand_Compare(t *testing.T) {
	out, err := execute(t, "preview", "-c", exampleConfig, "-o", "yaml", "--compare")
	require.NoError(t, err)
	assert.Contains(t, out, "before:")
	assert.Contains(t, out, "revoked_now:")

	out, err = execute(t, "preview", "-c", exampleConfig, "-o", "text", "--compare")
	require.NoError(t, err)
	assert.Contains(t, out, "After 4 step(s)")
	assert.Contains(t, out, "Changes")
}

func TestMetadataCommand(t *testing.T) {
	out, err := execute(t, "metadata", "-c", exampleConfig)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "https://demo.example", doc["external_url"])
	assert.Equal(t, float64(0), doc["seller_fee_basis_points"])
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-c", exampleConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "Demo Token (DEMO): 1000000000000000 base units, 4 step(s), cluster devnet")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenario:\n  token:\n    name: x\n    symbol: \"\"\n    total_supply: \"1\"\n  fee:\n    exchange_rate: \"1\"\n"), 0o644))
	_, err = execute(t, "validate", "-c", bad)
	assert.Equal(t, session.KindValidation, session.Kind(err))
}

func TestBatchCommand(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	out, err := execute(t, "batch", "-o", "text", exampleConfig, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scenario(s) failed")
	assert.Contains(t, out, "DEMO")
	assert.Contains(t, out, "FAILED")

	out, err = execute(t, "batch", "-o", "json", exampleConfig)
	require.NoError(t, err)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0]["result"])
}
