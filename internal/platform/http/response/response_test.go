package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()
	os.Exit(m.Run())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, http.StatusCreated, "created", gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body["data"])
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"conflict", apperr.Conflict("Email already in use"), http.StatusConflict, "Email already in use"},
		{"unauthorized", apperr.Unauthorized("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"not found", apperr.NotFound("Blog not found"), http.StatusNotFound, "Blog not found"},
		{"internal hides cause", apperr.Internal("db", errors.New("pq: secret detail")), http.StatusInternalServerError, "Internal server error"},
		{"untyped hides cause", errors.New("stack trace here"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.NotContains(t, w.Body.String(), "secret detail")
			assert.NotContains(t, w.Body.String(), "stack trace")
		})
	}
}

type sampleReq struct {
	Name     string `json:"name" binding:"required,min=2,max=5"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func TestBindError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","email":"nope"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleReq
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	verr := BindError(err)

	assert.Equal(t, apperr.KindValidation, verr.Kind)
	assert.Equal(t, []apperr.FieldError{
		{Field: "name", Message: "name must be at least 2 characters"},
		{Field: "email", Message: "email must be valid"},
		{Field: "password", Message: "password is required"},
	}, verr.Fields)
}

func TestBindError_MalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleReq
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	verr := BindError(err)

	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "body", verr.Fields[0].Field)
}
