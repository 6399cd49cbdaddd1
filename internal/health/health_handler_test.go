package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dilinamewan/Employee-Directory/internal/health"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Ok    bool              `json:"ok"`
	Data  map[string]string `json:"data"`
	Error struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	health.RegisterRoutes(r, h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHealth_AllUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectPing().SetVal("PONG")

	h := health.NewHandler([]health.Check{health.Postgres(db), health.Redis(rdb)})
	w, env := serve(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Ok)
	assert.Equal(t, map[string]string{"postgres": health.StatusUp, "redis": health.StatusUp}, env.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestHealth_RedisDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectPing().SetErr(errors.New("connection refused"))

	h := health.NewHandler([]health.Check{health.Postgres(db), health.Redis(rdb)})
	w, env := serve(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Ok)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, health.StatusUp, env.Error.Details["postgres"])
	assert.Equal(t, health.StatusDown, env.Error.Details["redis"])
}

func TestProbe_NoChecks(t *testing.T) {
	statuses, healthy := health.NewHandler(nil).Probe(context.Background())
	assert.True(t, healthy)
	assert.Empty(t, statuses)
}

func TestProbe_ConcurrentCallersSharePings(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	slow := health.Check{Name: "slow", Ping: func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	}}
	h := health.NewHandler([]health.Check{slow})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, healthy := h.Probe(context.Background())
			assert.True(t, healthy)
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// give the remaining callers time to join the in-flight probe
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
