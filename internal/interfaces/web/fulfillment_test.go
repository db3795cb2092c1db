package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bay-booking/internal/application/usecases"
	"github.com/example/bay-booking/internal/internaltypes"
)

type stubCreator struct {
	got  usecases.NewBookingParams
	conf usecases.Confirmation
	err  error
}

func (s *stubCreator) Execute(ctx context.Context, p usecases.NewBookingParams) (usecases.Confirmation, error) {
	s.got = p
	return s.conf, s.err
}

type stubCanceller struct {
	gotID    int64
	gotEmail string
	err      error
}

func (s *stubCanceller) Execute(ctx context.Context, id int64, email string) error {
	s.gotID = id
	s.gotEmail = email
	return s.err
}

func newTestServer(create BookingCreator, cancel BookingCanceller) http.Handler {
	return New(":0", create, cancel, nil, time.Second).Handler()
}

func postWebhook(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp struct {
		FulfillmentResponse struct {
			Messages []struct {
				Text struct {
					Text []string `json:"text"`
				} `json:"text"`
			} `json:"messages"`
		} `json:"fulfillment_response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.FulfillmentResponse.Messages, 1)
	require.Len(t, resp.FulfillmentResponse.Messages[0].Text.Text, 1)
	return rec, resp.FulfillmentResponse.Messages[0].Text.Text[0]
}

func bookingBody(duration string) string {
	return fmt.Sprintf(`{
		"fulfillmentInfo": {"tag": "makeNewBooking"},
		"sessionInfo": {"parameters": {
			"booking_date": {"year": 2026, "month": 9, "day": 12},
			"booking_start_time": "02:00 PM",
			"booking_duration": %s,
			"customer_email": "golfer@example.com"
		}}
	}`, duration)
}

func TestWebhookNewBooking(t *testing.T) {
	create := &stubCreator{conf: usecases.Confirmation{
		BookingID: 7,
		BayID:     2,
		Date:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}}
	h := newTestServer(create, &stubCanceller{})

	rec, msg := postWebhook(t, h, bookingBody(`"3 hours"`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, msg, "Booking successfully made!")
	assert.Contains(t, msg, "Booking number: 7")
	assert.Contains(t, msg, "Assigned bay: 2")
	assert.Contains(t, msg, "2026-09-12")

	assert.Equal(t, "golfer@example.com", create.got.Email)
	assert.Equal(t, "02:00 PM", create.got.StartTimeRaw)
	assert.Equal(t, 3, create.got.DurationHours)
	assert.True(t, create.got.Date.Equal(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)))
}

func TestWebhookDurationVariants(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     int
	}{
		{"suffixed string", `"3 hours"`, 3},
		{"bare string", `"2"`, 2},
		{"number", `4`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := &stubCreator{}
			h := newTestServer(create, &stubCanceller{})
			_, _ = postWebhook(t, h, bookingBody(tt.duration))
			assert.Equal(t, tt.want, create.got.DurationHours)
		})
	}
}

func TestWebhookBadDurationNeverReachesService(t *testing.T) {
	create := &stubCreator{}
	h := newTestServer(create, &stubCanceller{})

	_, msg := postWebhook(t, h, bookingBody(`"half an hour"`))
	assert.Contains(t, msg, "looks invalid")
	assert.Zero(t, create.got.DurationHours)
}

func TestWebhookNoBaysAvailable(t *testing.T) {
	create := &stubCreator{err: internaltypes.ErrUnavailable}
	h := newTestServer(create, &stubCanceller{})

	_, msg := postWebhook(t, h, bookingBody(`"3 hours"`))
	assert.Equal(t, "No bays are available for the selected time.", msg)
}

func TestWebhookBookingStoreFailureIsGeneric(t *testing.T) {
	create := &stubCreator{err: fmt.Errorf("%w: overlapping bays: boom", internaltypes.ErrLookup)}
	h := newTestServer(create, &stubCanceller{})

	_, msg := postWebhook(t, h, bookingBody(`"3 hours"`))
	assert.Equal(t, "Something went wrong, when trying to make your booking. Please try again later", msg)
	assert.NotContains(t, msg, "boom", "internal error text must never leak")
}

func cancelBody(id string) string {
	return fmt.Sprintf(`{
		"fulfillmentInfo": {"tag": "cancelBooking"},
		"sessionInfo": {"parameters": {
			"booking_id": %s,
			"customer_email": "golfer@example.com"
		}}
	}`, id)
}

func TestWebhookCancelBooking(t *testing.T) {
	cancel := &stubCanceller{}
	h := newTestServer(&stubCreator{}, cancel)

	_, msg := postWebhook(t, h, cancelBody(`17`))
	assert.Equal(t, "Your booking has been cancelled!", msg)
	assert.Equal(t, int64(17), cancel.gotID)
	assert.Equal(t, "golfer@example.com", cancel.gotEmail)
}

func TestWebhookCancelBookingStringID(t *testing.T) {
	cancel := &stubCanceller{}
	h := newTestServer(&stubCreator{}, cancel)

	_, _ = postWebhook(t, h, cancelBody(`"17"`))
	assert.Equal(t, int64(17), cancel.gotID)
}

func TestWebhookCancelNotFound(t *testing.T) {
	cancel := &stubCanceller{err: internaltypes.ErrNotFound}
	h := newTestServer(&stubCreator{}, cancel)

	_, msg := postWebhook(t, h, cancelBody(`17`))
	assert.Equal(t, "No booking found with the given id and email", msg)
}

func TestWebhookCancelStoreFailureIsGeneric(t *testing.T) {
	cancel := &stubCanceller{err: fmt.Errorf("%w: cancel reservation 17: boom", internaltypes.ErrLookup)}
	h := newTestServer(&stubCreator{}, cancel)

	_, msg := postWebhook(t, h, cancelBody(`17`))
	assert.Equal(t, "Something went wrong, when trying to cancel your booking. Please try again later", msg)
}

func TestWebhookUnsupportedTag(t *testing.T) {
	h := newTestServer(&stubCreator{}, &stubCanceller{})

	_, msg := postWebhook(t, h, `{"fulfillmentInfo": {"tag": "orderLunch"}, "sessionInfo": {"parameters": {}}}`)
	assert.Equal(t, "Unsupported request content", msg)
}

func TestWebhookMalformedJSON(t *testing.T) {
	h := newTestServer(&stubCreator{}, &stubCanceller{})

	_, msg := postWebhook(t, h, `{not json`)
	assert.Equal(t, "Something went wrong while processing your request. Please try again later.", msg)
}

func TestWebhookPreflight(t *testing.T) {
	h := newTestServer(&stubCreator{}, &stubCanceller{})

	req := httptest.NewRequest(http.MethodOptions, "/webhook", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthz(t *testing.T) {
	h := New(":0", &stubCreator{}, &stubCanceller{}, stubPinger{}, time.Second).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealthzStoreDown(t *testing.T) {
	h := New(":0", &stubCreator{}, &stubCanceller{}, stubPinger{err: errors.New("down")}, time.Second).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
