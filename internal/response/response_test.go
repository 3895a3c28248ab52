package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"v": 1}) })
	r.GET("/fail", func(c *gin.Context) { Fail(c, http.StatusConflict, ErrTransitionNotAllowed) })
	return r
}

func call(r http.Handler, path, reqID string) (*httptest.ResponseRecorder, Response) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	w, body := call(newEngine(), "/ok", "trace-123.a_b")
	assert.Equal(t, "trace-123.a_b", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "trace-123.a_b", body.Metadata.RequestID)
}

func TestRequestIDReplacesUnsafeValue(t *testing.T) {
	for _, bad := range []string{"has space", "quote\"d", strings.Repeat("a", maxRequestIDLen+1)} {
		w, body := call(newEngine(), "/ok", bad)
		id := w.Header().Get("X-Request-ID")
		assert.NotEqual(t, bad, id)
		assert.Len(t, id, 36, "generated UUID")
		assert.Equal(t, id, body.Metadata.RequestID)
	}
}

func TestFailEnvelope(t *testing.T) {
	w, body := call(newEngine(), "/fail", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrTransitionNotAllowed, body.Error.Code)
	assert.Equal(t, GetMessage(ErrTransitionNotAllowed), body.Error.Message)
	assert.Nil(t, body.Data)
}
