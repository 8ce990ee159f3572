package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort              string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL           string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret             string `env:"JWT_SECRET"`
	JWTIssuer             string `env:"JWT_ISSUER" envDefault:"livix"`
	RedisAddr             string `env:"REDIS_ADDR"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
	LikeRateWindowMinutes int    `env:"LIKE_RATE_WINDOW_MINUTES" envDefault:"10"`
	LikeRateMax           int    `env:"LIKE_RATE_MAX" envDefault:"60"`
	CandidatePoolLimit    int    `env:"CANDIDATE_POOL_LIMIT" envDefault:"500"`
	ChatSnapshotTTLHours  int    `env:"CHAT_SNAPSHOT_TTL_HOURS" envDefault:"720"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	MetricsEnabled        bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
