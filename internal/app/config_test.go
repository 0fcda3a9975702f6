package app

import (
	"testing"
	"time"

	"github.com/yungbote/brandstorm-backend/internal/realtime"
	"github.com/yungbote/brandstorm-backend/internal/realtime/bus"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "REDIS_ADDR", "ROOM_CHANNEL", "CORS_ORIGINS", "SHUTDOWN_TIMEOUT", "OTEL_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)

	if cfg.Port != "8080" {
		t.Fatalf("Port: want=8080 got=%q", cfg.Port)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "brainstorm.db" {
		t.Fatalf("DB: want=sqlite/brainstorm.db got=%s/%s", cfg.DB.Driver, cfg.DB.SQLitePath)
	}
	if cfg.RedisEnabled() {
		t.Fatalf("RedisEnabled: want=false")
	}
	if cfg.Redis.Channel != bus.DefaultRedisChannel {
		t.Fatalf("Redis channel: want=%s got=%s", bus.DefaultRedisChannel, cfg.Redis.Channel)
	}
	if cfg.RoomChannel != realtime.DefaultChannel {
		t.Fatalf("RoomChannel: want=%s got=%s", realtime.DefaultChannel, cfg.RoomChannel)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout: want=10s got=%v", cfg.ShutdownTimeout)
	}
	if cfg.Otel.Enabled {
		t.Fatalf("Otel.Enabled: want=false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3")

	cfg := LoadConfig(nil)
	if cfg.Port != "9000" || cfg.DB.Driver != "postgres" || cfg.DB.PostgresHost != "db.internal" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.RedisEnabled() {
		t.Fatalf("RedisEnabled: want=true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins: got=%v", cfg.CORSOrigins)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("ShutdownTimeout: want=3s got=%v", cfg.ShutdownTimeout)
	}
}
