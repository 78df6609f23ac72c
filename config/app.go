package config

type App struct {
	Port            string `env:"APP_PORT" default:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	DuplicateWindow int    `env:"DUPLICATE_WINDOW_HOURS" default:"24"`
	Env             string `env:"APP_ENV" default:"dev"`
}
