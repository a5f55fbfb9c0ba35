package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, SuccessEnvelope{Data: data})
}

// WriteError renders err as an ErrorEnvelope. Causes never reach the
// client; they are logged with the dump when logg is set.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	code := pkgerrors.CodeOf(err)
	meta := pkgerrors.MetadataFor(code)
	status, msg := pkgerrors.Public(err)

	body := APIError{Code: string(code), Message: msg}
	if typed := pkgerrors.As(err); typed != nil && meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	WriteJSON(w, status, ErrorEnvelope{Error: body})
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zlog.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}
