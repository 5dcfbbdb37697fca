package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"track uri", "spotify:track:abc", false},
		{"web link", "https://open.spotify.com/album/abc", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"garbage", "daft punk", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CatalogURI(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "CatalogURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestCatalogURIField(t *testing.T) {
	err := CatalogURIField("uri", "nope")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "uri", fieldErrs[0].Field)
	assert.NoError(t, CatalogURIField("uri", "spotify:artist:x"))
}

func TestHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"https", "https://api.spotify.com", false},
		{"http with port", "http://127.0.0.1:8080", false},
		{"no scheme", "api.spotify.com", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HTTPURL(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "HTTPURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestIntRange(t *testing.T) {
	check := IntRange(1, 10)
	assert.NoError(t, check(1))
	assert.NoError(t, check(10))
	assert.Error(t, check(0))
	assert.Error(t, check(11))
}

func TestExecutable(t *testing.T) {
	assert.NoError(t, Executable(""))
	assert.NoError(t, Executable("sh -c true"))
	assert.Error(t, Executable("definitely-not-a-real-binary-xyz"))
}
