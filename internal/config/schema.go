package config

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Defaults DefaultsConfig `toml:"defaults"`
	Session  SessionConfig  `toml:"session"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds connection settings for the streaming server.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"` // seconds
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	Volume  float64 `toml:"volume"`
	Shuffle bool    `toml:"shuffle"`
	Repeat  string  `toml:"repeat"`
}

// SessionConfig holds session keep-alive settings, in minutes.
type SessionConfig struct {
	Timeout int `toml:"timeout"`
	Warning int `toml:"warning"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
