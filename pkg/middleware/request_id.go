package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront-sync/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"
)

// ErrRequestIDNotFound is returned when no response is stored for a request ID.
var ErrRequestIDNotFound = errors.New("request ID not found")

// StoredResponse is what a replayed write answers with.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// RequestIDStore stores responses of processed write requests
type RequestIDStore interface {
	Store(ctx context.Context, requestID string, response StoredResponse, ttl time.Duration) error
	Get(ctx context.Context, requestID string) (StoredResponse, error)
}

// CacheRequestIDStore keeps idempotent responses in the shared cache, so
// replays survive across instances when Redis is enabled.
type CacheRequestIDStore struct {
	cache cache.Cache
}

func NewCacheRequestIDStore(c cache.Cache) *CacheRequestIDStore {
	return &CacheRequestIDStore{cache: c}
}

func (s *CacheRequestIDStore) Store(ctx context.Context, requestID string, response StoredResponse, ttl time.Duration) error {
	return cache.SetJSON(ctx, s.cache, cache.IdempotencyKey(requestID), response, ttl)
}

func (s *CacheRequestIDStore) Get(ctx context.Context, requestID string) (StoredResponse, error) {
	var response StoredResponse
	err := cache.GetJSON(ctx, s.cache, cache.IdempotencyKey(requestID), &response)
	if errors.Is(err, cache.ErrCacheMiss) {
		return StoredResponse{}, ErrRequestIDNotFound
	}
	if err != nil {
		return StoredResponse{}, err
	}
	return response, nil
}

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Set(RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDContextKey, requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// IdempotencyMiddleware replays the stored response of a write request whose
// X-Request-ID was already processed, and stores successful responses of new ones.
// Only client-supplied IDs are honoured.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if isReadOnly(c.Request.Method) || requestID == "" {
			c.Next()
			return
		}

		cached, err := store.Get(c.Request.Context(), requestID)
		switch {
		case err == nil && len(cached.Body) > 0:
			logger.Info("Duplicate request detected, returning cached response",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Int("status", cached.Status),
			)
			c.Data(replayStatus(cached.Status), replayContentType(cached.ContentType), cached.Body)
			c.Abort()
			return
		case err != nil && !errors.Is(err, ErrRequestIDNotFound):
			// fail open
			logger.Warn("Error checking request ID",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || len(writer.body) == 0 {
			return
		}
		response := StoredResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body,
		}
		if err := store.Store(c.Request.Context(), requestID, response, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}
}

// Entries written before the status was stored replay as 200.
func replayStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func replayContentType(contentType string) string {
	if contentType == "" {
		return "application/json; charset=utf-8"
	}
	return contentType
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
