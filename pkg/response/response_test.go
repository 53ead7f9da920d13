package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"payment-callback-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performResponse(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	fn(c)
	return w
}

func TestAck(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Ack(c, "callback received and processed")
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, "callback received and processed", resp.Message)
}

func TestReject_AppError(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Reject(c, apperror.ErrMissingReference())
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "Missing or invalid reference ID", resp.Message)
}

func TestReject_NeverServerError(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Reject(c, apperror.InternalError(fmt.Errorf("boom")))
	})

	// 5xx would trigger provider redelivery; it must be downgraded.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReject_UnknownError(t *testing.T) {
	w := performResponse(func(c *gin.Context) {
		Reject(c, fmt.Errorf("something unexpected"))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "Invalid request", resp.Message)
}
