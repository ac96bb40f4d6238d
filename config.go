package magicmcp

import (
	"log/slog"
	"time"
)

const (
	ServerName = "21st-magic"
	Version    = "0.0.17"
)

// ServiceConfig configures access to the 21st.dev backing service.
type ServiceConfig struct {
	APIKey  string        `env:"TWENTY_FIRST_API_KEY,required"`
	BaseURL string        `env:"TWENTY_FIRST_BASE_URL,default=https://magic.21st.dev"`
	Timeout time.Duration `env:"TWENTY_FIRST_TIMEOUT,default=2m"`
}

type ServerConfig struct {
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	CallLogPath string `env:"CALL_LOG_PATH"`
	S3Paths     bool   `env:"MAGIC_S3_PATHS,default=false"`
}

type HTTPConfig struct {
	Addr  string `env:"HTTP_ADDR,default=:3000"`
	Token string `env:"MCP_TOKEN"`
}

// UserAgent is sent on every request to the backing service.
func UserAgent() string {
	return ServerName + "-go/" + Version
}

// Level parses LogLevel, falling back to info for unknown values.
func (c ServerConfig) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
