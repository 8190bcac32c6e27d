package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-twin-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    apperror.Kind
		wantMessage string
		wantStamp   bool
	}{
		{
			name:        "rejection keeps message",
			err:         apperror.New(apperror.KindInvalidQuery, "off topic"),
			wantStatus:  http.StatusBadRequest,
			wantKind:    apperror.KindInvalidQuery,
			wantMessage: "off topic",
		},
		{
			name:        "wrapped rate limit",
			err:         fmt.Errorf("generate: %w", apperror.New(apperror.KindUpstreamRateLimit, "slow down")),
			wantStatus:  http.StatusTooManyRequests,
			wantKind:    apperror.KindUpstreamRateLimit,
			wantMessage: "slow down",
			wantStamp:   true,
		},
		{
			name:        "configuration",
			err:         apperror.New(apperror.KindConfiguration, "missing key"),
			wantStatus:  http.StatusServiceUnavailable,
			wantKind:    apperror.KindConfiguration,
			wantMessage: "missing key",
			wantStamp:   true,
		},
		{
			name:        "plain error hides cause",
			err:         errors.New("dial tcp 10.0.0.1: refused"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    apperror.KindInternal,
			wantMessage: "An unexpected error occurred",
			wantStamp:   true,
		},
		{
			name:        "fiber error",
			err:         fiber.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantKind:    apperror.KindBadRequest,
			wantMessage: "Not Found",
			wantStamp:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body ChatErrorBody
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantStamp, body.Timestamp != "")
		})
	}
}

type sample struct {
	Name  string `validate:"required"`
	Limit int    `validate:"omitempty,max=10"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sample{Name: "x"}))

	err := ValidateRequest(sample{Limit: 11})
	require.Error(t, err)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "Name failed on required")
	assert.Contains(t, err.Error(), "Limit failed on max=10")
}
