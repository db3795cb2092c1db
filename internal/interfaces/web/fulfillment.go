package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/bay-booking/internal/application/usecases"
	"github.com/example/bay-booking/internal/internaltypes"
)

// Fulfillment tags the conversational front-end sends.
const (
	tagNewBooking    = "makeNewBooking"
	tagCancelBooking = "cancelBooking"
)

// User-facing result messages. The front-end speaks these verbatim, so
// they stay stable and never carry internal error text.
const (
	msgUnsupported    = "Unsupported request content"
	msgGenericFailure = "Something went wrong while processing your request. Please try again later."
	msgBookingFailure = "Something went wrong, when trying to make your booking. Please try again later"
	msgCancelFailure  = "Something went wrong, when trying to cancel your booking. Please try again later"
	msgNoBays         = "No bays are available for the selected time."
	msgCancelled      = "Your booking has been cancelled!"
	msgCancelNotFound = "No booking found with the given id and email"
)

// webhookRequest is the fulfillment envelope of the conversational
// front-end: an intent tag plus a session parameter bag.
type webhookRequest struct {
	FulfillmentInfo struct {
		Tag string `json:"tag"`
	} `json:"fulfillmentInfo"`
	SessionInfo struct {
		Parameters sessionParams `json:"parameters"`
	} `json:"sessionInfo"`
}

// sessionParams uses RawMessage for values the front-end delivers
// inconsistently typed: durations arrive as "3 hours" or as a bare
// number, ids as numbers or numeric strings.
type sessionParams struct {
	BookingDate      *dateParam      `json:"booking_date"`
	BookingStartTime string          `json:"booking_start_time"`
	BookingDuration  json.RawMessage `json:"booking_duration"`
	BookingID        json.RawMessage `json:"booking_id"`
	CustomerEmail    string          `json:"customer_email"`
}

type dateParam struct {
	Year  float64 `json:"year"`
	Month float64 `json:"month"`
	Day   float64 `json:"day"`
}

type fulfillmentMessage struct {
	Text struct {
		Text []string `json:"text"`
	} `json:"text"`
}

type fulfillmentResponse struct {
	FulfillmentResponse struct {
		Messages []fulfillmentMessage `json:"messages"`
	} `json:"fulfillment_response"`
}

func (s *Server) handleFulfillment(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("fulfillment: decode request: %v", err)
		writeFulfillment(w, msgGenericFailure)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var msg string
	switch req.FulfillmentInfo.Tag {
	case tagNewBooking:
		msg = s.newBooking(ctx, req.SessionInfo.Parameters)
	case tagCancelBooking:
		msg = s.cancelBooking(ctx, req.SessionInfo.Parameters)
	default:
		msg = msgUnsupported
	}
	writeFulfillment(w, msg)
}

func (s *Server) newBooking(ctx context.Context, p sessionParams) string {
	params, err := p.bookingParams()
	if err != nil {
		log.Printf("fulfillment: %s: %v", tagNewBooking, err)
		return validationMessage(err)
	}
	conf, err := s.create.Execute(ctx, params)
	switch {
	case err == nil:
		return fmt.Sprintf("Booking successfully made!\nBooking number: %d\nAssigned bay: %d\nSee you on %s !!",
			conf.BookingID, conf.BayID, conf.Date.Format("2006-01-02"))
	case errors.Is(err, internaltypes.ErrUnavailable):
		return msgNoBays
	case errors.Is(err, internaltypes.ErrValidation):
		log.Printf("fulfillment: %s: %v", tagNewBooking, err)
		return validationMessage(err)
	default:
		log.Printf("fulfillment: %s: email=%q date=%v: %v", tagNewBooking, params.Email, params.Date.Format("2006-01-02"), err)
		return msgBookingFailure
	}
}

func (s *Server) cancelBooking(ctx context.Context, p sessionParams) string {
	id, email, err := p.cancelParams()
	if err != nil {
		log.Printf("fulfillment: %s: %v", tagCancelBooking, err)
		return validationMessage(err)
	}
	err = s.cancel.Execute(ctx, id, email)
	switch {
	case err == nil:
		return msgCancelled
	case errors.Is(err, internaltypes.ErrNotFound):
		return msgCancelNotFound
	case errors.Is(err, internaltypes.ErrValidation):
		log.Printf("fulfillment: %s: %v", tagCancelBooking, err)
		return validationMessage(err)
	default:
		log.Printf("fulfillment: %s: id=%d: %v", tagCancelBooking, id, err)
		return msgCancelFailure
	}
}

func (p sessionParams) bookingParams() (usecases.NewBookingParams, error) {
	if p.BookingDate == nil {
		return usecases.NewBookingParams{}, fmt.Errorf("%w: booking_date is missing", internaltypes.ErrValidation)
	}
	y, m, d := int(p.BookingDate.Year), int(p.BookingDate.Month), int(p.BookingDate.Day)
	if y == 0 || m < 1 || m > 12 || d < 1 || d > 31 {
		return usecases.NewBookingParams{}, fmt.Errorf("%w: booking_date %d-%d-%d is not a calendar date", internaltypes.ErrValidation, y, m, d)
	}
	hours, err := parseDurationHours(p.BookingDuration)
	if err != nil {
		return usecases.NewBookingParams{}, fmt.Errorf("%w: %v", internaltypes.ErrValidation, err)
	}
	return usecases.NewBookingParams{
		Email:         p.CustomerEmail,
		Date:          time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
		StartTimeRaw:  p.BookingStartTime,
		DurationHours: hours,
	}, nil
}

func (p sessionParams) cancelParams() (int64, string, error) {
	id, err := parseBookingID(p.BookingID)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", internaltypes.ErrValidation, err)
	}
	return id, p.CustomerEmail, nil
}

// parseDurationHours accepts the front-end's "3 hours" strings as well
// as bare numbers, and insists on a whole positive hour count.
func parseDurationHours(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("booking_duration is missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return 0, fmt.Errorf("booking_duration is empty")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("booking_duration %q is not a whole number of hours", s)
		}
		return n, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("booking_duration has unexpected type")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("booking_duration %v is not a whole number of hours", f)
	}
	return int(f), nil
}

func parseBookingID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("booking_id is missing")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("booking_id %v is not an integer", f)
		}
		return int64(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("booking_id has unexpected type")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("booking_id %q is not an integer", s)
	}
	return id, nil
}

// validationMessage turns a wrapped ErrValidation into the short
// user-facing form; anything else gets the generic failure text.
func validationMessage(err error) string {
	if !errors.Is(err, internaltypes.ErrValidation) {
		return msgGenericFailure
	}
	detail := strings.TrimPrefix(err.Error(), internaltypes.ErrValidation.Error()+": ")
	return "Sorry, that request looks invalid: " + detail
}

func writeFulfillment(w http.ResponseWriter, text string) {
	var m fulfillmentMessage
	m.Text.Text = []string{text}
	var resp fulfillmentResponse
	resp.FulfillmentResponse.Messages = []fulfillmentMessage{m}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("fulfillment: encode response: %v", err)
	}
}
