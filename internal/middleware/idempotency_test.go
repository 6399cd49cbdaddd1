package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dilinamewan/Employee-Directory/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	cacheKey := middleware.IdempotencyCacheKey("/employees", "u-1", "key-1")
	lockKey := cacheKey + ":lock"
	stored := `{"status":201,"body":{"id":1}}`

	newRouter := func(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		router := setupRouter()
		router.POST("/employees",
			func(c *gin.Context) { c.Set(middleware.ContextUserID, "u-1"); c.Next() },
			middleware.Idempotency(rdb),
			func(c *gin.Context) {
				calls++
				c.JSON(http.StatusCreated, gin.H{"id": 1})
			},
		)
		return router, mock, &calls
	}

	post := func(router *gin.Engine, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/employees", nil)
		if key != "" {
			req.Header.Set(middleware.IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("first request runs and stores the response", func(t *testing.T) {
		router, mock, calls := newRouter(t)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(stored), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(router, "key-1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat is replayed without running the handler", func(t *testing.T) {
		router, mock, calls := newRouter(t)
		mock.ExpectGet(cacheKey).SetVal(stored)

		w := post(router, "key-1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get(middleware.IdempotencyReplayed))
		assert.Equal(t, 0, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		router, mock, calls := newRouter(t)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 30*time.Second).SetVal(false)

		w := post(router, "key-1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", errorCode(t, w))
		assert.Equal(t, 0, *calls)
	})

	t.Run("no key bypasses redis", func(t *testing.T) {
		router, mock, calls := newRouter(t)

		w := post(router, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
