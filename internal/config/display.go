package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/riskibarqy/pinball-leaderboard/internal/platform/logging"
)

// Display is the kiosk configuration served at /api/config.
type Display struct {
	BarName string        `json:"bar_name" toml:"bar_name" validate:"required"`
	LogoURL string        `json:"logo_url" toml:"logo_url"`
	Display DisplayTiming `json:"display" toml:"display"`
	API     DisplayAPI    `json:"api" toml:"api"`
	Theme   DisplayTheme  `json:"theme" toml:"theme"`
}

// DisplayTiming values are in seconds (scene) and milliseconds (transition).
type DisplayTiming struct {
	SceneDuration   int `json:"scene_duration" toml:"scene_duration" validate:"gt=0"`
	TransitionSpeed int `json:"transition_speed" toml:"transition_speed" validate:"gt=0"`
}

type DisplayAPI struct {
	RefreshInterval int `json:"refresh_interval" toml:"refresh_interval" validate:"gt=0"`
}

type DisplayTheme struct {
	PrimaryColor    string `json:"primary_color" toml:"primary_color" validate:"hexcolor"`
	SecondaryColor  string `json:"secondary_color" toml:"secondary_color" validate:"hexcolor"`
	BackgroundColor string `json:"background_color" toml:"background_color" validate:"hexcolor"`
	TextColor       string `json:"text_color" toml:"text_color" validate:"hexcolor"`
	AccentColor     string `json:"accent_color" toml:"accent_color" validate:"hexcolor"`
}

func DefaultDisplay() Display {
	return Display{
		BarName: "Pinball Leaderboard",
		LogoURL: "/static/logo.png",
		Display: DisplayTiming{SceneDuration: 60, TransitionSpeed: 800},
		API:     DisplayAPI{RefreshInterval: 300000},
		Theme: DisplayTheme{
			PrimaryColor:    "#ff6b35",
			SecondaryColor:  "#f7931e",
			BackgroundColor: "#1a1a2e",
			TextColor:       "#ffffff",
			AccentColor:     "#00d9ff",
		},
	}
}

// LoadDisplay reads a .json or .toml display file over DefaultDisplay and
// validates the result. Fields the file leaves out keep their default.
func LoadDisplay(path string) (Display, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Display{}, fmt.Errorf("read display config: %w", err)
	}

	out := DefaultDisplay()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
			return Display{}, fmt.Errorf("decode display config %s: %w", path, err)
		}
	default:
		if err := sonic.Unmarshal(raw, &out); err != nil {
			return Display{}, fmt.Errorf("decode display config %s: %w", path, err)
		}
	}

	if err := validator.New().Struct(out); err != nil {
		return Display{}, fmt.Errorf("validate display config %s: %w", path, err)
	}
	return out, nil
}

// LoadDisplayOrDefault never fails: an unreadable or invalid file yields the
// default display with a warning.
func LoadDisplayOrDefault(path string, logger *logging.Logger) Display {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(path) == "" {
		return DefaultDisplay()
	}

	display, err := LoadDisplay(path)
	if err != nil {
		logger.Warn("display config unavailable, using defaults", "path", path, "error", err)
		return DefaultDisplay()
	}
	return display
}
