package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridroom/tictactoe-backend/internal/metrics"
)

type contextKey string

const userIDKey contextKey = "userID"

// userIDFrom returns the authenticated user ID stored by requireAuth.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireAuth resolves a Bearer token into a user ID for downstream handlers.
func (that *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			that.respondError(writer, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := that.auth.ParseToken(token)
		if err != nil {
			that.respondError(writer, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(request.Context(), userIDKey, userID)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (that *statusRecorder) WriteHeader(code int) {
	that.status = code
	that.ResponseWriter.WriteHeader(code)
}

// requestLogger logs every request and records HTTP metrics.
func (that *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		elapsed := time.Since(start)

		// Use the route pattern so path parameters don't explode label
		// cardinality.
		path := request.URL.Path
		if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(request.Method, path, strconv.Itoa(recorder.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(request.Method, path).Observe(elapsed.Seconds())

		that.logger.Info("http request",
			"method", request.Method,
			"path", request.URL.Path,
			"status", recorder.status,
			"duration", elapsed.String(),
		)
	})
}
