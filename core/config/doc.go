// Package config loads typed configuration from environment variables with
// caarlos0/env struct tags. Each configuration type is parsed once and cached.
//
//	type Config struct {
//		Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
//		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
//		DatabaseURL     string        `env:"PG_CONN_URL,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure, useful at startup
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is read on first use. Variables that
// are already set in the environment take precedence over the file.
package config
