package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "CONFDOCTEST_"

func settingsKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, testPrefix))
}

func TestProvider(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected string
	}{
		{
			name: "single key",
			envVars: map[string]string{
				testPrefix + "REPO": "/src/nova",
			},
			expected: `{"repo":"/src/nova"}`,
		},
		{
			name: "underscores survive single",
			envVars: map[string]string{
				testPrefix + "FLAGMAPPINGS_DIR": "doc/flagmappings",
			},
			expected: `{"flagmappings_dir":"doc/flagmappings"}`,
		},
		{
			name: "array handling",
			envVars: map[string]string{
				testPrefix + "INSTALL_ROOTS__0": "/usr/lib/go",
				testPrefix + "INSTALL_ROOTS__1": "/opt/nova",
			},
			expected: `{"install_roots":["/usr/lib/go","/opt/nova"]}`,
		},
		{
			name: "nested keys",
			envVars: map[string]string{
				testPrefix + "RENDER__FORMAT": "markdown",
			},
			expected: `{"render":{"format":"markdown"}}`,
		},
		{
			name: "prefix filtering",
			envVars: map[string]string{
				testPrefix + "PACKAGE":      "nova",
				"CONFDOCOTHER_PACKAGE":      "ignored",
				testPrefix + "EXCLUDE_DIRS": "tests,cmd",
			},
			expected: `{"package":"nova","exclude_dirs":"tests,cmd"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			data, err := Provider(testPrefix, "__", settingsKey).ReadBytes()
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestProviderWithoutCallbackKeepsNames(t *testing.T) {
	t.Setenv(testPrefix+"DATABASE__PASSWORD", "password")

	data, err := Provider(testPrefix, "__", nil).ReadBytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"CONFDOCTEST_DATABASE":{"PASSWORD":"password"}}`, string(data))
}

func TestProviderCallbackCanDropKeys(t *testing.T) {
	t.Setenv(testPrefix+"REPO", "/src/nova")
	t.Setenv(testPrefix+"SECRET", "x")

	data, err := Provider(testPrefix, "__", func(s string) string {
		if strings.HasSuffix(s, "SECRET") {
			return ""
		}
		return settingsKey(s)
	}).ReadBytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo":"/src/nova"}`, string(data))
}

func TestProviderWithValue(t *testing.T) {
	t.Setenv(testPrefix+"EXTENSIONS", "nova.api,nova.compute")

	provider := ProviderWithValue(testPrefix, "__", func(key string, value string) (string, any) {
		return settingsKey(key), strings.Split(value, ",")
	})
	data, err := provider.ReadBytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"extensions":["nova.api","nova.compute"]}`, string(data))
}

func TestReadNotSupported(t *testing.T) {
	_, err := Provider("", "__", nil).Read()
	assert.Error(t, err)
}
