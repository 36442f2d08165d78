package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, 0.10, p.Recommendation.UnderpricedThreshold)
	assert.Equal(t, 0.10, p.Recommendation.OverpricedThreshold)
	assert.Equal(t, HistoricalStrict, p.Historical.Mode)
	assert.Equal(t, IncludeFinite, p.Peers.Include)
	assert.Equal(t, 3, p.Rounding.Places)
	assert.NoError(t, Validate(p))
}

func TestLoad_EmptyPath(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_ShippedDefaultMatchesBuiltin(t *testing.T) {
	path := "../../config/policy/default.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("policy file not found")
	}

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.Equal(t, Default().Hash(), p.Hash())
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	p, err := Parse([]byte("historical:\n  mode: lenient\n"))
	require.NoError(t, err)

	assert.Equal(t, HistoricalLenient, p.Historical.Mode)
	assert.Equal(t, IncludeFinite, p.Peers.Include)
	assert.Equal(t, 0.10, p.Recommendation.UnderpricedThreshold)
	assert.Equal(t, 3, p.Rounding.Places)
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestParse_UnknownFieldFails(t *testing.T) {
	_, err := Parse([]byte("rounding:\n  digits: 2\n"))
	assert.Error(t, err)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"negative threshold", "recommendation:\n  underpriced_threshold: -0.1\n", "recommendation.underpriced_threshold"},
		{"bad mode", "historical:\n  mode: loose\n", "historical.mode"},
		{"bad include", "peers:\n  include: all\n", "peers.include"},
		{"too many places", "rounding:\n  places: 11\n", "rounding.places"},
		{"negative places", "rounding:\n  places: -1\n", "rounding.places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestHash(t *testing.T) {
	p := Default()
	hash := p.Hash()
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	assert.Equal(t, hash, Default().Hash())

	p.Peers.Include = IncludePositive
	assert.NotEqual(t, hash, p.Hash())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("peers:\n  include: positive\nrounding:\n  places: 2\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IncludePositive, p.Peers.Include)
	assert.Equal(t, 2, p.Rounding.Places)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
