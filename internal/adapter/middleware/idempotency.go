package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"banking-ledger/internal/infrastructure/cache"

	"github.com/labstack/echo/v4"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// Store is the persistence the middleware needs; cache.IdempotencyStore
// implements it over redis.
type Store interface {
	Reserve(ctx context.Context, key string, e cache.Entry) (bool, error)
	Load(ctx context.Context, key string) (cache.Entry, error)
	Complete(ctx context.Context, key string, e cache.Entry, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency makes mutating requests safe to retry. Each request carries an
// Ax-Request-Id (uuid or 32-char hex) and an Ax-Request-At timestamp; the
// first response for method + path + id is kept for ttl and replayed to
// retries with the same body. Server errors are not kept.
func Idempotency(store Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}
			reqAt, err := parseAxRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, req.URL.Path, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			pending := cache.Entry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			}
			// a second attempt covers a reservation that expired between SetNX and Get
			reserved := false
			for attempt := 0; attempt < 2 && !reserved; attempt++ {
				ok, err := store.Reserve(ctx, key, pending)
				if err != nil {
					log.Printf("idempotency: reserve %s: %v", key, err)
					return storeUnavailable(c)
				}
				if ok {
					reserved = true
					break
				}
				cur, err := store.Load(ctx, key)
				if errors.Is(err, cache.ErrEntryGone) {
					continue
				}
				if err != nil {
					log.Printf("idempotency: load %s: %v", key, err)
					return storeUnavailable(c)
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					c.Response().Header().Set("Ax-Idempotent-Replay", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}
			if !reserved {
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be done; finish bookkeeping regardless
			done, cancelDone := context.WithTimeout(context.WithoutCancel(req.Context()), storeTimeout)
			defer cancelDone()
			if rec.code >= http.StatusInternalServerError {
				if err := store.Release(done, key); err != nil {
					log.Printf("idempotency: release %s: %v", key, err)
				}
				return nil
			}
			err = store.Complete(done, key, cache.Entry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl)
			if err != nil {
				log.Printf("idempotency: complete %s: %v", key, err)
			}
			return nil
		}
	}
}

func storeUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
}
