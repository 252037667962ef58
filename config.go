package rapina

import "github.com/dmitrymomot/rapina/core/server"

// Config is the application configuration loaded from the environment.
type Config struct {
	Server server.Config

	Introspection bool   `env:"APP_INTROSPECTION" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
}
