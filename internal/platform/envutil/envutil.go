package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset or blank.
func String(name, def string, log *logger.Logger) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debug(log, name, def, true)
		return def
	}
	debug(log, name, v, false)
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debug(log, name, def, true)
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("Invalid integer in environment, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	debug(log, name, i, false)
	return i
}

func Bool(name string, def bool, log *logger.Logger) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch v {
	case "":
		debug(log, name, def, true)
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Warn("Invalid boolean in environment, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
}

// Duration accepts Go duration strings ("5s") or a bare number of seconds.
func Duration(name string, def time.Duration, log *logger.Logger) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debug(log, name, def, true)
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	if log != nil {
		log.Warn("Invalid duration in environment, using default", "key", name, "value", v, "default", def)
	}
	return def
}

func Float(name string, def float64, log *logger.Logger) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debug(log, name, def, true)
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if log != nil {
			log.Warn("Invalid float in environment, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	return f
}

// List splits a comma separated value, dropping blanks.
func List(name string, def []string, log *logger.Logger) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debug(log, name, def, true)
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func debug(log *logger.Logger, name string, val interface{}, usedDefault bool) {
	if log == nil {
		return
	}
	if usedDefault {
		log.Debug("Environment variable not set, using default", "key", name, "default", val)
		return
	}
	log.Debug("Environment variable loaded", "key", name, "value", val)
}
