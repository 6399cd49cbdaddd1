package employee_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dilinamewan/Employee-Directory/internal/employee"
	employeeerrors "github.com/dilinamewan/Employee-Directory/internal/employee/errors"
	employeeMock "github.com/dilinamewan/Employee-Directory/internal/employee/mock"
	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"
	"github.com/dilinamewan/Employee-Directory/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Ok    bool                     `json:"ok"`
	Data  json.RawMessage          `json:"data"`
	Meta  *response.PaginationMeta `json:"meta"`
	Error struct {
		Code    string                `json:"code"`
		Message string                `json:"message"`
		Details []apperror.FieldError `json:"details"`
	} `json:"error"`
}

type recordingObserver struct {
	values []float64
}

func (o *recordingObserver) Observe(v float64) {
	o.values = append(o.values, v)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := employeeMock.NewMockService(ctrl)
	listSize := &recordingObserver{}
	handler := employee.NewHandler(mockService, listSize)
	router := setupRouter()
	router.GET("/employees", handler.List)

	t.Run("binds query and writes pagination meta", func(t *testing.T) {
		mockService.EXPECT().
			List(gomock.Any(), employee.ListEmployeesQuery{Search: "Eng", Page: 2, PageSize: 10}).
			Return(employee.EmployeeListResponse{
				Items: []employee.EmployeeResponse{{ID: 11, FullName: "K"}},
				Pagination: employee.Pagination{
					CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalCount: 25,
				},
			}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?search=Eng&page=2&page_size=10", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		require.NotNil(t, env.Meta)
		assert.Equal(t, response.PaginationMeta{
			Total: 25, TotalPages: 3, Page: 2, PageSize: 10,
			HasPreviousPage: true, HasNextPage: true,
			StartIndex: 11, EndIndex: 20,
		}, *env.Meta)
		assert.Equal(t, []float64{1}, listSize.values)
	})

	t.Run("empty result reports page one of zero", func(t *testing.T) {
		mockService.EXPECT().
			List(gomock.Any(), employee.ListEmployeesQuery{Search: "zzz"}).
			Return(employee.EmployeeListResponse{
				Items:      []employee.EmployeeResponse{},
				Pagination: employee.Pagination{CurrentPage: 1, PageSize: 10},
			}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?search=zzz", nil))

		env := decodeEnvelope(t, w)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, env.Meta.Page)
		assert.Equal(t, 0, env.Meta.TotalPages)
		assert.Equal(t, int64(0), env.Meta.StartIndex)
		assert.Equal(t, int64(0), env.Meta.EndIndex)
		assert.Contains(t, string(env.Data), `"items":[]`)
	})

	t.Run("oversized page size echoes the cap", func(t *testing.T) {
		mockService.EXPECT().
			List(gomock.Any(), employee.ListEmployeesQuery{PageSize: 500}).
			Return(employee.EmployeeListResponse{
				Items: []employee.EmployeeResponse{},
				Pagination: employee.Pagination{
					CurrentPage: 1, PageSize: employee.MaxPageSize, TotalPages: 1, TotalCount: 3,
				},
			}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?page_size=500", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, employee.MaxPageSize, env.Meta.PageSize)

		var data employee.EmployeeListResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, employee.MaxPageSize, data.Pagination.PageSize)
	})

	t.Run("non numeric page", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?page=two", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		mockService.EXPECT().
			List(gomock.Any(), gomock.Any()).
			Return(employee.EmployeeListResponse{}, errors.New("pq: connection refused"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, apperror.CodeInternalError, env.Error.Code)
		assert.Equal(t, "Internal server error", env.Error.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := employeeMock.NewMockService(ctrl)
	handler := employee.NewHandler(mockService, nil)
	router := setupRouter()
	router.GET("/employees/:id", handler.GetByID)

	t.Run("found", func(t *testing.T) {
		mockService.EXPECT().GetByID(gomock.Any(), int64(7)).Return(employee.EmployeeResponse{ID: 7, FullName: "Ann Lee"}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/7", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Data), `"full_name":"Ann Lee"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockService.EXPECT().GetByID(gomock.Any(), int64(999)).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := employeeMock.NewMockService(ctrl)
	handler := employee.NewHandler(mockService, nil)
	router := setupRouter()
	router.POST("/employees", handler.Create)

	t.Run("created", func(t *testing.T) {
		req := validCreateRequest()
		body, _ := json.Marshal(req)

		mockService.EXPECT().Create(gomock.Any(), req).Return(employee.EmployeeResponse{ID: 1, FullName: req.FullName}, nil)

		r := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBuffer(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("field errors are listed", func(t *testing.T) {
		req := validCreateRequest()
		req.Phone = "12345"
		body, _ := json.Marshal(req)

		mockService.EXPECT().
			Create(gomock.Any(), req).
			Return(employee.EmployeeResponse{}, apperror.NewValidation(employee.ValidateEmployee(req)))

		r := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBuffer(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, apperror.CodeValidation, env.Error.Code)
		assert.Equal(t, []apperror.FieldError{{Field: "phone", Message: "Phone must be exactly 10 digits"}}, env.Error.Details)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString(`{"full_name":`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists)

		body, _ := json.Marshal(validCreateRequest())
		r := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBuffer(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := employeeMock.NewMockService(ctrl)
	handler := employee.NewHandler(mockService, nil)
	router := setupRouter()
	router.PUT("/employees/:id", handler.Update)

	req := employee.UpdateEmployeeRequest{CreateEmployeeRequest: validCreateRequest(), Version: 4}
	body, _ := json.Marshal(req)

	t.Run("replaced", func(t *testing.T) {
		mockService.EXPECT().Replace(gomock.Any(), int64(5), req).Return(employee.EmployeeResponse{ID: 5, Version: 5}, nil)

		r := httptest.NewRequest(http.MethodPut, "/employees/5", bytes.NewBuffer(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Data), `"version":5`)
	})

	t.Run("stale version", func(t *testing.T) {
		mockService.EXPECT().Replace(gomock.Any(), int64(5), req).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeVersionConflict)

		r := httptest.NewRequest(http.MethodPut, "/employees/5", bytes.NewBuffer(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeConflict, decodeEnvelope(t, w).Error.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := employeeMock.NewMockService(ctrl)
	handler := employee.NewHandler(mockService, nil)
	router := setupRouter()
	router.DELETE("/employees/:id", handler.Delete)

	t.Run("deleted", func(t *testing.T) {
		mockService.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/3", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":true}`, string(decodeEnvelope(t, w).Data))
	})

	t.Run("already gone", func(t *testing.T) {
		mockService.EXPECT().Delete(gomock.Any(), int64(3)).Return(employeeerrors.ErrEmployeeNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/3", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
