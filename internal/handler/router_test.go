//go:build unit

package handler_test

import (
	"net/http"
	"testing"

	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/handler"
	"booking-orchestrator/internal/handler/api"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/tests/common/httptest"
	commandsmock "booking-orchestrator/tests/mock/commands"
	usecasemock "booking-orchestrator/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type routerDeps struct {
	engine    *gin.Engine
	selection *commandsmock.MockDateSelectionCommands
	deposits  *commandsmock.MockDepositCommands
	validator *usecasemock.MockTokenValidator
}

func newRouter(t *testing.T, mutate func(*config.Config)) routerDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	d := routerDeps{
		engine:    gin.New(),
		selection: commandsmock.NewMockDateSelectionCommands(ctrl),
		deposits:  commandsmock.NewMockDepositCommands(ctrl),
		validator: usecasemock.NewMockTokenValidator(ctrl),
	}
	cfg := config.NewTestConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	handler.NewRouter(d.engine, cfg, handler.Handlers{
		DateSelection: api.NewDateSelectionHandler(d.selection),
		Deposit:       api.NewDepositHandler(d.deposits),
	}, middleware.NewAuthMiddleware(d.validator))
	return d
}

func TestRouter(t *testing.T) {
	t.Run("success: health", func(t *testing.T) {
		d := newRouter(t, nil)
		rec := httptest.PerformRequest(t, d.engine, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("success: request id is generated", func(t *testing.T) {
		d := newRouter(t, nil)
		rec := httptest.PerformRequest(t, d.engine, http.MethodGet, "/health", nil, "")
		httptest.AssertHeader(t, rec, "X-Request-ID", "")
	})

	t.Run("success: caller request id is kept", func(t *testing.T) {
		d := newRouter(t, nil)
		rec := httptest.PerformRequest(t, d.engine, http.MethodGet, "/health", nil, "",
			httptest.WithHeader("X-Request-ID", "req-123"))
		httptest.AssertHeader(t, rec, "X-Request-ID", "req-123")
	})

	t.Run("error: admin route without token", func(t *testing.T) {
		d := newRouter(t, nil)
		rec := httptest.PerformRequest(t, d.engine, http.MethodPost, "/api/admin/deposits/"+uuid.NewString()+"/paid", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})

	t.Run("success: admin route reaches the handler", func(t *testing.T) {
		d := newRouter(t, nil)
		id := uuid.New()
		admin := user.NewActor(uuid.New(), user.RoleAdmin)
		d.validator.EXPECT().ValidateToken("admin").Return(admin, nil)
		d.deposits.EXPECT().MarkPaid(gomock.Any(), id, "", admin).Return(&commands.MarkPaidResult{DepositRequestID: id}, nil)

		rec := httptest.PerformRequest(t, d.engine, http.MethodPost, "/api/admin/deposits/"+id.String()+"/paid", nil, "admin")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
	})

	t.Run("error: public endpoint is throttled", func(t *testing.T) {
		d := newRouter(t, func(cfg *config.Config) {
			cfg.RateLimit = config.RateLimitConfig{PublicPerMinute: 1, PublicBurst: 1}
		})
		d.selection.EXPECT().Preview(gomock.Any(), "tok", "").Return(nil, commands.ErrNotFound).Times(2)

		body := map[string]any{"action": "preview", "token": "tok"}
		first := httptest.PerformRequest(t, d.engine, http.MethodPost, "/api/trip-date-selection", body, "")
		assert.Equal(t, http.StatusNotFound, first.Code)

		second := httptest.PerformRequest(t, d.engine, http.MethodPost, "/api/trip-date-selection", body, "")
		httptest.AssertErrorResponse(t, second, http.StatusTooManyRequests, "Too many requests")
		httptest.AssertHeader(t, second, "Retry-After", "60")

		other := httptest.PerformRequest(t, d.engine, http.MethodPost, "/api/trip-date-selection", body, "",
			httptest.FromIP("198.51.100.20"))
		assert.Equal(t, http.StatusNotFound, other.Code)
	})
}
