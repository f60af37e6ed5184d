package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "http://localhost:8000"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "http://localhost:8000"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=first.json", "-c", "second.json", "-i", "30"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-i", "-l"},
			allowedFlags: []string{"-i"},
			want:         []string{"-i"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFlag([]string{"-a", "http://x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigFileFlag([]string{"-config", "b.json"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-i", "10"}))
}

func TestJsonConfigFlags_ReadsProcessArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"cli", "-c", "desk.json"}
	assert.Equal(t, "desk.json", JsonConfigFlags())
}

func TestEnv(t *testing.T) {
	t.Setenv("DRIFTDESK_TEST_VALUE", "  http://api:9000 ")
	assert.Equal(t, "http://api:9000", Env("DRIFTDESK_TEST_VALUE", "def"))

	t.Setenv("DRIFTDESK_TEST_VALUE", "   ")
	assert.Equal(t, "def", Env("DRIFTDESK_TEST_VALUE", "def"))

	assert.Equal(t, "def", Env("DRIFTDESK_TEST_UNSET_VALUE", "def"))
}
