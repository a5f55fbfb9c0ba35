package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/vegthaliclub/catering-backend/api/responses"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	pkgredis "github.com/vegthaliclub/catering-backend/pkg/redis"
)

const (
	IdempotencyHeader     = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long an in-flight marker can block retries if
	// the process dies before recording the response.
	pendingTTL       = 2 * time.Minute
	maxIdempotentKey = 128
)

// IdempotentRoutes lists the relay endpoints that honour Idempotency-Key.
var IdempotentRoutes = []string{
	"/api/send-catering-email",
	"/api/contact",
}

// storedResponse is what a key resolves to. Body is base64 on the wire.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a POST to a relay route
// repeats its Idempotency-Key with the same body. Requests without the
// header pass through, since the public site form never sends one.
// Server errors are not recorded so the caller can retry with the same key.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			route := routePattern(r)
			if store == nil || clientKey == "" || r.Method != http.MethodPost || !slices.Contains(IdempotentRoutes, route) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotentKey {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			hash := hex.EncodeToString(sum[:])
			key := store.IdempotencyKey(route, clientKey)

			claimed, err := store.SetNX(ctx, key, encodeStored(storedResponse{Pending: true, RequestHash: hash}), pendingTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if !claimed {
				replay(ctx, store, key, hash, w, logg)
				return
			}

			var captured bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)
			next.ServeHTTP(ww, r)

			// The request context may be canceled once the handler returns.
			saveCtx := context.WithoutCancel(ctx)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				if err := store.Del(saveCtx, key); err != nil && logg != nil {
					logg.Error(ctx, "release idempotency key", err)
				}
				return
			}

			done := storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
				RequestHash: hash,
			}
			if err := store.Set(saveCtx, key, encodeStored(done), ttl); err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

func replay(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string, w http.ResponseWriter, logg *logger.Logger) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// Released between SetNX and Get: the first attempt failed.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request already in progress"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}
	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}

	switch {
	case stored.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case stored.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request already in progress"))
	default:
		if stored.ContentType != "" {
			w.Header().Set("Content-Type", stored.ContentType)
		}
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(stored.Status)
		_, _ = w.Write(stored.Body)
	}
}

func encodeStored(s storedResponse) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
