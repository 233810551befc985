package core

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment keys read by LoadConfiguration.
const (
	EnvLogLevel       = "TELLOVR_LOG_LEVEL"
	EnvLogFormat      = "TELLOVR_LOG_FORMAT"
	EnvAssets         = "TELLOVR_ASSETS"
	EnvFramesPerSec   = "TELLOVR_FPS"
	EnvMaxTextureSize = "TELLOVR_MAX_TEXTURE_SIZE"
	EnvScreenWidth    = "TELLOVR_WIDTH"
	EnvScreenHeight   = "TELLOVR_HEIGHT"
)

// Configuration defines a global application configuration setting
type Configuration struct {
	Log     LogConfiguration
	Assets  AssetConfiguration
	Window  WindowConfiguration
	Time    TimeConfiguration
	Texture TextureConfiguration
}

// LogConfiguration is used to configure the logger
type LogConfiguration struct {
	// Level is a logrus level name, e.g. "info" or "debug"
	Level string

	// Format is either "text" or "json"
	Format string
}

// AssetConfiguration tells where shaders and frames are read from
type AssetConfiguration struct {
	// Path is a directory or a kar archive
	Path string

	VertexShader   string
	FragmentShader string

	// FramePrefix selects the frame images inside Path
	FramePrefix string
}

// WindowConfiguration is used to configure the viewer window
type WindowConfiguration struct {
	Title        string
	ScreenWidth  uint32
	ScreenHeight uint32
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the event polling interval in milliseconds
	EventPollDelay int
}

// TextureConfiguration is used to configure texture uploads
type TextureConfiguration struct {
	// MaxSize caps the larger side of uploaded frames, 0 disables it
	MaxSize int
}

// DefaultConfiguration returns the settings used when nothing is configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		Log: LogConfiguration{
			Level:  "info",
			Format: "text",
		},
		Assets: AssetConfiguration{
			Path:           "./assets",
			VertexShader:   "shaders/frame.vert",
			FragmentShader: "shaders/frame.frag",
			FramePrefix:    "frames/",
		},
		Window: WindowConfiguration{
			Title:        "TelloVR",
			ScreenWidth:  1280,
			ScreenHeight: 720,
		},
		Time: TimeConfiguration{
			FramesPerSecond: 30,
			EventPollDelay:  10,
		},
		Texture: TextureConfiguration{
			MaxSize: 2048,
		},
	}
}

// LoadConfiguration builds the configuration from defaults, the optional
// TOML file at path, .env files in the working directory and finally
// the process environment. Later layers win.
func LoadConfiguration(path string, envFiles ...string) (Configuration, error) {
	cfg := DefaultConfiguration()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read configuration: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse configuration %s: %w", path, err)
		}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		vars, err := godotenv.Read(f)
		if err != nil {
			return cfg, fmt.Errorf("load %s: %w", f, err)
		}
		for k, v := range vars {
			// the process environment takes precedence
			if _, err := envy.MustGet(k); err != nil {
				envy.Set(k, v)
			}
		}
	}

	if err := applyEnvironment(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvironment(cfg *Configuration) error {
	cfg.Log.Level = envy.Get(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = envy.Get(EnvLogFormat, cfg.Log.Format)
	cfg.Assets.Path = envy.Get(EnvAssets, cfg.Assets.Path)

	ints := []struct {
		key string
		dst *int
	}{
		{EnvFramesPerSec, &cfg.Time.FramesPerSecond},
		{EnvMaxTextureSize, &cfg.Texture.MaxSize},
	}
	for _, v := range ints {
		n, err := envInt(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = n
	}

	width, err := envInt(EnvScreenWidth, int(cfg.Window.ScreenWidth))
	if err != nil {
		return err
	}
	height, err := envInt(EnvScreenHeight, int(cfg.Window.ScreenHeight))
	if err != nil {
		return err
	}
	cfg.Window.ScreenWidth, cfg.Window.ScreenHeight = uint32(width), uint32(height)
	return nil
}

func envInt(key string, fallback int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback, fmt.Errorf("%s: not a non-negative integer: %q", key, raw)
	}
	return n, nil
}
