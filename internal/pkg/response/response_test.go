package response

import (
	"Mintora/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
		field   string
	}{
		{"field validation", service.NewValidationError("title", "不能为空"), http.StatusBadRequest, "title: 不能为空", "title"},
		{"storage stage", fmt.Errorf("%w: %w", service.ErrStorage, errors.New("minio: timeout")), http.StatusInternalServerError, service.ErrStorage.Error(), ""},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, service.ErrForbidden.Error(), ""},
		{"not found", service.ErrNotFound, http.StatusNotFound, service.ErrNotFound.Error(), ""},
		{"conflict", service.ErrDuplicateMint, http.StatusConflict, service.ErrDuplicateMint.Error(), ""},
		{"unknown", errors.New("driver: bad connection"), http.StatusInternalServerError, service.UnExpectedError.Error(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
			assert.NotContains(t, w.Body.String(), "minio")
		})
	}
}

func TestList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	List(c, 2, nil, []int{1, 2})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":2,"data":[1,2]}`, w.Body.String())
}
