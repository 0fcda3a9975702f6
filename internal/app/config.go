package app

import (
	"time"

	"github.com/yungbote/brandstorm-backend/internal/data/db"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/platform/envutil"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
	"github.com/yungbote/brandstorm-backend/internal/realtime/bus"
)

type Config struct {
	Port            string
	DB              db.Config
	Redis           bus.RedisConfig
	RoomChannel     string
	SSEBuffer       int
	StaticDir       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	ReconcileOnBoot bool
	Otel            observability.OtelConfig
}

// RedisEnabled reports whether push events relay through Redis.
func (c Config) RedisEnabled() bool { return c.Redis.Addr != "" }

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: envutil.String("PORT", "8080", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "sqlite", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "brainstorm.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "brainstorm", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", 200*time.Millisecond, log),
		},
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
			Channel:  envutil.String("REDIS_CHANNEL", bus.DefaultRedisChannel, log),
		},
		RoomChannel:     envutil.String("ROOM_CHANNEL", realtime.DefaultChannel, log),
		SSEBuffer:       envutil.Int("SSE_BUFFER", realtime.DefaultOutboundBuffer, log),
		StaticDir:       envutil.String("STATIC_DIR", "", log),
		CORSOrigins:     envutil.List("CORS_ORIGINS", nil, log),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second, log),
		ReconcileOnBoot: envutil.Bool("RECONCILE_ON_BOOT", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "brandstorm-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_TRACES_SAMPLER_RATIO", 1, log),
		},
	}
}
