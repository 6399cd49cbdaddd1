package health

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"
	"github.com/dilinamewan/Employee-Directory/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	defaultTimeout = 2 * time.Second
)

// Check is one named dependency probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

func Postgres(db *sql.DB) Check {
	return Check{Name: "postgres", Ping: db.PingContext}
}

func Redis(rdb *redis.Client) Check {
	return Check{Name: "redis", Ping: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}

type Handler struct {
	checks  []Check
	timeout time.Duration
	sf      singleflight.Group
	logger  *zap.Logger
}

type probeResult struct {
	statuses map[string]string
	healthy  bool
}

func NewHandler(checks []Check, logger ...*zap.Logger) *Handler {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{
		checks:  checks,
		timeout: defaultTimeout,
		logger:  l.Named("health.handler"),
	}
}

// Probe runs every check concurrently and reports each dependency's status.
// The second result is false if any dependency is down. Callers arriving while
// a probe is in flight share its result.
func (h *Handler) Probe(ctx context.Context) (map[string]string, bool) {
	v, _, _ := h.sf.Do("probe", func() (interface{}, error) {
		statuses, healthy := h.probe(context.WithoutCancel(ctx))
		return probeResult{statuses: statuses, healthy: healthy}, nil
	})
	res := v.(probeResult)
	return res.statuses, res.healthy
}

func (h *Handler) probe(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		statuses = make(map[string]string, len(h.checks))
		healthy  = true
	)

	var g errgroup.Group
	for _, chk := range h.checks {
		g.Go(func() error {
			err := chk.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.logger.Warn("dependency unhealthy", zap.String("dependency", chk.Name), zap.Error(err))
				statuses[chk.Name] = StatusDown
				healthy = false
				return nil
			}
			statuses[chk.Name] = StatusUp
			return nil
		})
	}
	_ = g.Wait()

	return statuses, healthy
}

func (h *Handler) Check(c *gin.Context) {
	statuses, healthy := h.Probe(c.Request.Context())
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "One or more dependencies are unavailable", statuses)
		return
	}
	response.Success(c, http.StatusOK, statuses, nil)
}

func RegisterRoutes(r gin.IRouter, handler *Handler) {
	r.GET("/healthz", handler.Check)
}
