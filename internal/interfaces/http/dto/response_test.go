package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "mana-universe-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

func TestAbortWithAppErrorStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/x", func(c *gin.Context) {
		c.Set("trace_id", "t-1")
		AbortWithAppError(c, apperrors.ErrTooManyRequests.WithDetail("slow down"))
	}, func(c *gin.Context) { reached = true })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if reached {
		t.Fatalf("handler after abort should not run")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status: got=%d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != http.StatusTooManyRequests || body.TraceID != "t-1" || body.Error == nil ||
		body.Error.ErrorCode != string(apperrors.CodeTooManyRequests) || body.Error.Details != "slow down" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestNewErrorResponseDefaultsToInternalStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	status, body := NewErrorResponse(c, &apperrors.AppError{Code: apperrors.CodeUnknown, Message: "boom"})
	if status != http.StatusInternalServerError || body.Code != status {
		t.Fatalf("status: got=%d body=%d", status, body.Code)
	}
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		page, size, total int
		wantPages         int
	}{
		{1, 20, 0, 0},
		{1, 20, 20, 1},
		{2, 20, 21, 2},
		{1, 0, 5, 0},
	}
	for _, tt := range tests {
		if got := NewPageMeta(tt.page, tt.size, tt.total); got.TotalPages != tt.wantPages {
			t.Fatalf("NewPageMeta(%d,%d,%d).TotalPages = %d, want %d", tt.page, tt.size, tt.total, got.TotalPages, tt.wantPages)
		}
	}
}
