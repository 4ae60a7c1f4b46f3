//go:build e2e

package dateselection_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"booking-orchestrator/internal/domain/user"
	resdto "booking-orchestrator/internal/handler/dto/response"
	"booking-orchestrator/internal/infra/queue"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/builder"
	"booking-orchestrator/tests/common/dbtest"
	"booking-orchestrator/tests/common/httptest"
	"booking-orchestrator/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	selectionURL = "/api/trip-date-selection"
	markPaidURL  = "/api/admin/deposits/%s/paid"
)

type DateSelectionSuite struct {
	e2e.SharedSuite
}

func TestDateSelectionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DateSelectionSuite))
}

type fixture struct {
	trip         *builder.TripBuilder
	partnerToken string
	adminToken   string
}

func (s *DateSelectionSuite) seed() fixture {
	t := s.T()
	trip := builder.NewTripBuilder()
	dbtest.InsertTrip(t, s.DB, trip)
	dbtest.InsertDepositRule(t, s.DB, builder.NewDepositRuleBuilder())

	partnerUser := uuid.New()
	dbtest.AddPartnerMember(t, s.DB, trip.PartnerID, partnerUser)

	return fixture{
		trip:         trip,
		partnerToken: s.JWT.GenerateToken(t, partnerUser, user.RolePartner),
		adminToken:   s.JWT.GenerateToken(t, uuid.New(), user.RoleAdmin),
	}
}

func (s *DateSelectionSuite) sendOptions(f fixture, dates ...string) string {
	t := s.T()
	rec := httptest.PerformRequest(t, s.Router, http.MethodPost, selectionURL, map[string]any{
		"action":         "send_options",
		"fulfillment_id": f.trip.FulfillmentID.String(),
		"dates":          dates,
	}, f.partnerToken)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
	return s.latestToken(f.trip.FulfillmentID)
}

// latestToken reads the raw token back from the outbox payload.
func (s *DateSelectionSuite) latestToken(fulfillmentID uuid.UUID) string {
	var link string
	err := s.DB.QueryRow(context.Background(), `
		SELECT payload->>'selection_url' FROM notification_jobs
		WHERE topic = $1 AND payload->>'fulfillment_id' = $2
		ORDER BY created_at DESC LIMIT 1`,
		shared.TopicDateOptionsReady, fulfillmentID.String()).Scan(&link)
	s.Require().NoError(err)
	u, err := url.Parse(link)
	s.Require().NoError(err)
	return u.Query().Get("token")
}

func (s *DateSelectionSuite) TestHappyPath() {
	s.Run("success: options, confirm, payment and acceptance", func() {
		t := s.T()
		f := s.seed()
		token := s.sendOptions(f, "2030-06-02", "2030-06-03")

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, selectionURL,
			map[string]any{"action": "preview", "token": token}, "")
		var preview resdto.PreviewResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &preview)
		if diff := cmp.Diff([]string{"2030-06-02", "2030-06-03"}, preview.ProposedDates); diff != "" {
			t.Fatalf("proposed dates (-want +got):\n%s", diff)
		}
		s.True(preview.CanConfirm)
		s.Equal("Lake Bled day trip", preview.Label)

		rec = httptest.PerformRequest(t, s.Router, http.MethodPost, selectionURL,
			map[string]any{"action": "confirm", "token": token, "selected_date": "2030-06-03"}, "")
		var confirm resdto.ConfirmResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &confirm)
		s.Require().True(confirm.PaymentLinkReady, "payment link error: %v", confirm.PaymentLinkError)
		s.Require().NotNil(confirm.DepositRequestID)
		s.Equal(int64(5000), s.Provider.LastParams().Amount.Minor())

		var bookingDate, selStatus, depStatus string
		ctx := context.Background()
		s.Require().NoError(s.DB.QueryRow(ctx, "SELECT selected_date::text FROM bookings WHERE id = $1", f.trip.BookingID).Scan(&bookingDate))
		s.Require().NoError(s.DB.QueryRow(ctx, "SELECT status FROM selection_requests WHERE fulfillment_id = $1", f.trip.FulfillmentID).Scan(&selStatus))
		s.Require().NoError(s.DB.QueryRow(ctx, "SELECT status FROM deposit_requests WHERE id = $1", *confirm.DepositRequestID).Scan(&depStatus))
		s.Equal("2030-06-03", bookingDate)
		s.Equal("selected", selStatus)
		s.Equal("pending", depStatus)
		s.Equal(1, dbtest.CountNotifications(t, s.DB, shared.TopicDepositRequested))

		rec = httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(markPaidURL, confirm.DepositRequestID.String()),
			map[string]any{"checkout_session_id": "cs_test_1"}, f.adminToken)
		var paid resdto.MarkDepositPaidResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &paid)
		s.Equal("paid", paid.Status)

		var fStatus string
		var revealed bool
		s.Require().NoError(s.DB.QueryRow(ctx, "SELECT status, contact_revealed FROM fulfillments WHERE id = $1", f.trip.FulfillmentID).Scan(&fStatus, &revealed))
		s.Equal("accepted", fStatus)
		s.True(revealed)

		paidKey := commands.DepositPaidKey(*confirm.DepositRequestID)
		info, err := s.Queue.GetTaskInfo(queue.NotificationQueue, paidKey)
		s.Require().NoError(err)
		s.Equal(shared.TopicDepositPaid, info.Type)

		rec = httptest.PerformRequest(t, s.Router, http.MethodPost, selectionURL,
			map[string]any{"action": "send_options", "fulfillment_id": f.trip.FulfillmentID.String(), "dates": []string{"2030-06-04"}}, f.partnerToken)
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "")
	})
}

func (s *DateSelectionSuite) TestAccess() {
	s.Run("error: anonymous send_options", func() {
		f := s.seed()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, selectionURL, map[string]any{
			"action": "send_options", "fulfillment_id": f.trip.FulfillmentID.String(), "dates": []string{"2030-06-02"},
		}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("error: partner outside the fulfillment", func() {
		f := s.seed()
		stranger := s.JWT.GenerateToken(s.T(), uuid.New(), user.RolePartner)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, selectionURL, map[string]any{
			"action": "send_options", "fulfillment_id": f.trip.FulfillmentID.String(), "dates": []string{"2030-06-02"},
		}, stranger)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("error: mark paid requires admin", func() {
		f := s.seed()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(markPaidURL, uuid.New()), nil, f.partnerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: expired admin token", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(markPaidURL, uuid.New()), nil,
			s.JWT.CreateExpiredToken(s.T(), uuid.New(), user.RoleAdmin))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})
}

func (s *DateSelectionSuite) TestExpiry() {
	s.Run("error: preview after expiry is gone and persisted as expired", func() {
		f := s.seed()
		token := s.sendOptions(f, "2030-06-02")

		_, err := s.DB.Exec(context.Background(),
			"UPDATE selection_requests SET expires_at = now() - interval '1 minute' WHERE fulfillment_id = $1", f.trip.FulfillmentID)
		s.Require().NoError(err)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, selectionURL,
			map[string]any{"action": "preview", "token": token}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusGone, "")

		var status string
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT status FROM selection_requests WHERE fulfillment_id = $1", f.trip.FulfillmentID).Scan(&status))
		s.Equal("expired", status)
	})
}

func (s *DateSelectionSuite) TestConcurrentConfirm() {
	s.Run("success: parallel confirms leave one deposit row", func() {
		f := s.seed()
		token := s.sendOptions(f, "2030-06-02", "2030-06-03")

		var wg sync.WaitGroup
		codes := make([]int, 6)
		for i := range codes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, selectionURL,
					map[string]any{"action": "confirm", "token": token, "selected_date": "2030-06-02"}, "")
				codes[i] = rec.Code
			}(i)
		}
		wg.Wait()

		for _, code := range codes {
			require.Contains(s.T(), []int{http.StatusOK, http.StatusConflict}, code)
		}
		s.Contains(codes, http.StatusOK)

		var n int
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM deposit_requests WHERE fulfillment_id = $1", f.trip.FulfillmentID).Scan(&n))
		s.Equal(1, n)
	})
}
