package controllers

import (
	"context"
	"net/http"

	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type readinessPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WeSaveFood-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the backing store answers.
func HealthReady(cfg *config.Config, store readinessPinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WeSaveFood-Env", cfg.App.Env)
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backing store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
