package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "AB_TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "AB_TEST_VAR_2", "", "default", "default"},
		{"uses default when blank", "AB_TEST_VAR_3", "   ", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)
			assert.Equal(t, tc.expected, getEnvOrDefault(tc.key, tc.defaultVal))
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "42", 10, 42},
		{"uses default for empty", "", 10, 10},
		{"uses default for non-numeric", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("AB_TEST_INT", tc.envValue)
			assert.Equal(t, tc.expected, getEnvAsIntOrDefault("AB_TEST_INT", tc.defaultVal))
		})
	}
}

func TestGetEnvAsListOrDefault(t *testing.T) {
	t.Setenv("AB_TEST_LIST", " openai/gpt-4o-mini, ,gemini-2.0-flash,")
	assert.Equal(t, []string{"openai/gpt-4o-mini", "gemini-2.0-flash"}, getEnvAsListOrDefault("AB_TEST_LIST", nil))

	t.Setenv("AB_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, getEnvAsListOrDefault("AB_TEST_LIST", []string{"x"}))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MODELS", "MAX_HISTORY", "CONFIG_FILE", "DEFAULT_PROVIDER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultModels, cfg.Models)
	assert.Equal(t, DefaultMaxHistory, cfg.MaxHistory)
	assert.Equal(t, DefaultConfigFile, cfg.ConfigFile)
	assert.Equal(t, "gemini", cfg.DefaultProvider)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInstructionLoader_MissingFileUsesDefault(t *testing.T) {
	l := NewInstructionLoader(filepath.Join(t.TempDir(), "nope.json"))

	got, err := l.Read()

	require.NoError(t, err)
	assert.Equal(t, DefaultInstruction, got)
	assert.Equal(t, DefaultInstruction, l.Load())
}

func TestInstructionLoader_Override(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"instruction": "X"}`))

	assert.Equal(t, "X", l.Load())
}

func TestInstructionLoader_KeepsNonASCII(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"instruction": "Trả lời bằng tiếng Việt"}`))

	assert.Equal(t, "Trả lời bằng tiếng Việt", l.Load())
}

func TestInstructionLoader_MissingKeyUsesDefault(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"other": "value"}`))

	got, err := l.Read()

	require.NoError(t, err)
	assert.Equal(t, DefaultInstruction, got)
}

func TestInstructionLoader_EmptyInstructionIsKept(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"instruction": ""}`))

	assert.Equal(t, "", l.Load())
}

func TestInstructionLoader_MalformedUsesDefault(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"instruction": `))

	_, err := l.Read()

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, l.Path, readErr.Path)
	assert.Equal(t, DefaultInstruction, l.Load())
}

func TestInstructionLoader_KeyIsCaseSensitive(t *testing.T) {
	l := NewInstructionLoader(writeConfig(t, `{"Instruction": "upper"}`))

	got, err := l.Read()

	require.NoError(t, err)
	assert.Equal(t, DefaultInstruction, got)
	assert.Equal(t, DefaultInstruction, l.Load())
}

func TestInstructionLoader_NonStringUsesDefault(t *testing.T) {
	for _, body := range []string{
		`{"instruction": 42}`,
		`{"instruction": ["a"]}`,
		`{"instruction": {"text": "a"}}`,
		`{"instruction": null}`,
		`{"instruction": true}`,
	} {
		l := NewInstructionLoader(writeConfig(t, body))

		got, err := l.Read()

		var readErr *ReadError
		require.ErrorAs(t, err, &readErr, body)
		assert.Equal(t, DefaultInstruction, got, body)
		assert.Equal(t, DefaultInstruction, l.Load(), body)
	}
}

func TestInstructionLoader_DirectoryUsesDefault(t *testing.T) {
	l := NewInstructionLoader(t.TempDir())

	_, err := l.Read()

	assert.Error(t, err)
	assert.Equal(t, DefaultInstruction, l.Load())
}

func TestInstructionSource_ReloadIsExplicit(t *testing.T) {
	path := writeConfig(t, `{"instruction": "first"}`)
	src := NewInstructionSource(NewInstructionLoader(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"instruction": "second"}`), 0o644))
	assert.Equal(t, "first", src.Instruction())

	assert.Equal(t, "second", src.Reload())
	assert.Equal(t, "second", src.Instruction())
}
