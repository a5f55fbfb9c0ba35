package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/vegthaliclub/catering-backend/api/responses"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

const envHeader = "X-Catering-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency. Nil pingers are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(checks)
				}
				continue
			}
			checks[name] = "up"
		}
		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
