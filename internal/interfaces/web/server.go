package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/example/bay-booking/internal/application/usecases"
)

// BookingCreator and BookingCanceller are the two operations the
// fulfillment surface needs; the concrete usecases satisfy them and
// tests substitute stubs.
type BookingCreator interface {
	Execute(ctx context.Context, p usecases.NewBookingParams) (usecases.Confirmation, error)
}

type BookingCanceller interface {
	Execute(ctx context.Context, id int64, email string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	addr    string
	create  BookingCreator
	cancel  BookingCanceller
	ping    Pinger
	timeout time.Duration
}

func New(addr string, create BookingCreator, cancel BookingCanceller, ping Pinger, timeout time.Duration) *Server {
	return &Server{addr: addr, create: create, cancel: cancel, ping: ping, timeout: timeout}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/webhook", s.handleFulfillment).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Use(cors, logging)
	return r
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s", s.addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if s.ping != nil {
		if err := s.ping.Ping(ctx); err != nil {
			log.Printf("healthz: store ping: %v", err)
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// The conversational front-end calls from a browser context, so the
// webhook answers preflights and marks responses world-readable.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s %s", id, r.Method, r.URL.Path, time.Since(start))
	})
}
