package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// AppConfigFile 默认配置文件名（相对工作目录）
const AppConfigFile = "config.toml"

// AppConfig 应用配置，对应 config.toml
type AppConfig struct {
	Window WindowConfig `toml:"window"`
	Assets AssetsConfig `toml:"assets"`
	Cursor CursorConfig `toml:"cursor"`
	Audio  AudioConfig  `toml:"audio"`
	Save   SaveConfig   `toml:"save"`
	Log    LogConfig    `toml:"log"`
}

// WindowConfig 窗口设置
type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
}

// AssetsConfig 资源位置
type AssetsConfig struct {
	// Dir 为空时使用嵌入资源，否则从该目录读取（目录下应有 assets/）
	Dir string `toml:"dir"`
	// Manifests 资源集 ID 到清单路径的映射，未列出的资源集使用默认路径
	Manifests map[string]string `toml:"manifests"`
}

// CursorConfig 自定义光标
type CursorConfig struct {
	// Set 光标贴图所在的资源集
	Set string `toml:"set"`
}

// AudioConfig 音频设置
type AudioConfig struct {
	SampleRate  int     `toml:"sample_rate"`
	MusicVolume float64 `toml:"music_volume"` // 0.0 ~ 1.0
}

// SaveConfig 存档设置
type SaveConfig struct {
	AppName string `toml:"app_name"`
}

// LogConfig 日志设置
type LogConfig struct {
	Verbose bool `toml:"verbose"`
}

// DefaultAppConfig 返回默认配置
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Window: WindowConfig{
			Title:  "Visual Novel Menu",
			Width:  ScreenWidth,
			Height: ScreenHeight,
		},
		Assets: AssetsConfig{
			Manifests: map[string]string{},
		},
		Cursor: CursorConfig{Set: "welcome"},
		Audio: AudioConfig{
			SampleRate:  48000,
			MusicVolume: 0.7,
		},
		Save: SaveConfig{AppName: "vnmenu"},
		Log:  LogConfig{Verbose: true},
	}
}

// LoadAppConfig 读取配置文件，文件不存在时返回默认配置
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultAppConfig(), nil
	}
	if err != nil {
		return DefaultAppConfig(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := ParseAppConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseAppConfig 解析 TOML 配置，未设置的字段保持默认值
func ParseAppConfig(data []byte) (AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultAppConfig(), err
	}
	if cfg.Assets.Manifests == nil {
		cfg.Assets.Manifests = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return DefaultAppConfig(), err
	}
	return cfg, nil
}

// Validate 检查配置取值
func (c AppConfig) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 {
		errs = append(errs, fmt.Errorf("audio music_volume must be within [0,1], got %v", c.Audio.MusicVolume))
	}
	if c.Cursor.Set == "" {
		errs = append(errs, errors.New("cursor set must not be empty"))
	}
	if c.Save.AppName == "" {
		errs = append(errs, errors.New("save app_name must not be empty"))
	}
	return errors.Join(errs...)
}
