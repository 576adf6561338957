package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("EBMD_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

func logStart(r *http.Request, lvl LogLevel, op string) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Str("path", r.URL.Path)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg(op + " start")
		return
	}
	log.Printf("%s start path=%s", op, r.URL.Path)
}

func logEnd(r *http.Request, lvl LogLevel, op string, status int, start time.Time, err error) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg(op + " end")
		return
	}
	log.Printf("%s end status=%d dur=%s err=%v", op, status, time.Since(start), err)
}
