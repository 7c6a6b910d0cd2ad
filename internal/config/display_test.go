package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pinball-leaderboard/internal/platform/logging"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDisplay_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"bar_name": "Silverball Saloon",
		"logo_url": "/static/saloon.png",
		"display": {"scene_duration": 30, "transition_speed": 500},
		"api": {"refresh_interval": 60000},
		"theme": {
			"primary_color": "#112233",
			"secondary_color": "#445566",
			"background_color": "#000000",
			"text_color": "#fff",
			"accent_color": "#abcdef"
		}
	}`)

	display, err := LoadDisplay(path)
	require.NoError(t, err)
	require.Equal(t, "Silverball Saloon", display.BarName)
	require.Equal(t, 30, display.Display.SceneDuration)
	require.Equal(t, 60000, display.API.RefreshInterval)
	require.Equal(t, "#fff", display.Theme.TextColor)
}

func TestLoadDisplay_TOML(t *testing.T) {
	path := writeFile(t, "display.toml", `
bar_name = "Tilt Tavern"
logo_url = "/static/tilt.png"

[display]
scene_duration = 45
transition_speed = 900

[api]
refresh_interval = 120000

[theme]
primary_color = "#ff6b35"
secondary_color = "#f7931e"
background_color = "#1a1a2e"
text_color = "#ffffff"
accent_color = "#00d9ff"
`)

	display, err := LoadDisplay(path)
	require.NoError(t, err)
	require.Equal(t, "Tilt Tavern", display.BarName)
	require.Equal(t, 900, display.Display.TransitionSpeed)
}

func TestLoadDisplay_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"bar_name": "Bad Colours",
		"display": {"scene_duration": 30, "transition_speed": 500},
		"api": {"refresh_interval": 60000},
		"theme": {
			"primary_color": "orange",
			"secondary_color": "#445566",
			"background_color": "#000000",
			"text_color": "#ffffff",
			"accent_color": "#abcdef"
		}
	}`)

	_, err := LoadDisplay(path)
	require.Error(t, err)
}

func TestLoadDisplay_PartialFileKeepsDefaults(t *testing.T) {
	defaults := DefaultDisplay()

	t.Run("json without theme", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"bar_name": "Flipper Lounge", "api": {"refresh_interval": 15000}}`)

		display, err := LoadDisplay(path)
		require.NoError(t, err)
		require.Equal(t, "Flipper Lounge", display.BarName)
		require.Equal(t, 15000, display.API.RefreshInterval)
		require.Equal(t, defaults.Theme, display.Theme)
		require.Equal(t, defaults.Display, display.Display)
		require.Equal(t, defaults.LogoURL, display.LogoURL)
	})

	t.Run("toml with one theme colour", func(t *testing.T) {
		path := writeFile(t, "display.toml", `
bar_name = "Tilt Tavern"

[theme]
accent_color = "#123456"
`)

		display, err := LoadDisplay(path)
		require.NoError(t, err)
		require.Equal(t, "#123456", display.Theme.AccentColor)
		require.Equal(t, defaults.Theme.PrimaryColor, display.Theme.PrimaryColor)
		require.Equal(t, defaults.Display.SceneDuration, display.Display.SceneDuration)
	})
}

func TestLoadDisplayOrDefault_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.json")},
		{name: "malformed json", path: writeFile(t, "config.json", `{"bar_name": `)},
		{name: "zero timings", path: writeFile(t, "zero.json", `{"bar_name":"x","display":{"scene_duration":0,"transition_speed":0}}`)},
		{name: "empty path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadDisplayOrDefault(tt.path, logging.NewNop())
			require.Equal(t, DefaultDisplay(), got)
		})
	}
}
