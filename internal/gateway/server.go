package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server is the validating edge in front of the core service. It checks
// payload shape and ranges, rate-limits callers, and forwards everything
// that passes.
type Server struct {
	cfg     config.GatewayConfig
	proxy   *Proxy
	limiter domain.RateLimiter
	now     func() time.Time
	server  *http.Server
	log     zerolog.Logger
}

func NewServer(cfg config.GatewayConfig, limiter domain.RateLimiter, now func() time.Time, logger *zerolog.Logger) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		cfg:     cfg,
		proxy:   NewProxy(cfg.ServerURL, logger),
		limiter: limiter,
		now:     now,
		log:     logger.With().Str("component", "gateway").Logger(),
	}

	r := chi.NewRouter()
	r.Use(s.rateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeGatewayJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.validated(s.validateCreateUser))
		r.Patch("/{userId}", s.validated(s.validateUpdateUser))
		r.Get("/", s.forward)
		r.Get("/{userId}", s.forward)
		r.Delete("/{userId}", s.forward)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", s.withCaller(s.validated(s.validateCreateItem)))
		r.Patch("/{itemId}", s.withCaller(s.validated(s.validateUpdateItem)))
		r.Post("/{itemId}/comment", s.withCaller(s.validated(s.validateComment)))
		r.Get("/", s.withCaller(s.forward))
		r.Get("/search", s.withCaller(s.forward))
		r.Get("/{itemId}", s.withCaller(s.forward))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.withCaller(s.validated(s.validateCreateBooking)))
		r.Patch("/{bookingId}", s.withCaller(s.forward))
		r.Get("/", s.withCaller(s.forward))
		r.Get("/owner", s.withCaller(s.forward))
		r.Get("/{bookingId}", s.withCaller(s.forward))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", s.withCaller(s.validated(s.validateCreateRequest)))
		r.Get("/", s.withCaller(s.forward))
		r.Get("/all", s.withCaller(s.forward))
		r.Get("/{requestId}", s.withCaller(s.forward))
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("gateway listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	s.proxy.Forward(w, r, nil)
}

// validated reads the body once, runs the check, and forwards the same
// bytes on success.
func (s *Server) validated(check func(r *http.Request, body []byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeGatewayError(w, models.BadRequest("failed to read request body"))
			return
		}
		if err := check(r, body); err != nil {
			writeGatewayError(w, err)
			return
		}
		s.proxy.Forward(w, r, body)
	}
}

// withCaller rejects requests without a well-formed caller identity header
// before they reach the core.
func (s *Server) withCaller(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(models.HeaderUserID)
		if raw == "" {
			writeGatewayError(w, models.BadRequest("%s header is required", models.HeaderUserID))
			return
		}
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			writeGatewayError(w, models.BadRequest("%s header must be numeric", models.HeaderUserID))
			return
		}
		next(w, r)
	}
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(models.HeaderUserID)
		if key == "" {
			key = r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				key = host
			}
		}

		window := time.Duration(s.cfg.RateLimit.WindowSeconds) * time.Second
		allowed, err := s.limiter.Allow(r.Context(), key, s.cfg.RateLimit.Requests, window)
		if err != nil {
			// The limiter failing must not take the API down.
			s.log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeGatewayJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) validateCreateUser(_ *http.Request, body []byte) error {
	var p createUserPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func (s *Server) validateUpdateUser(_ *http.Request, body []byte) error {
	var p updateUserPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func (s *Server) validateCreateItem(_ *http.Request, body []byte) error {
	var p createItemPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func (s *Server) validateUpdateItem(_ *http.Request, body []byte) error {
	var p updateItemPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func (s *Server) validateComment(_ *http.Request, body []byte) error {
	var p commentPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func (s *Server) validateCreateBooking(_ *http.Request, body []byte) error {
	var p createBookingPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate(s.now())
}

func (s *Server) validateCreateRequest(_ *http.Request, body []byte) error {
	var p createRequestPayload
	if err := decodePayload(body, &p); err != nil {
		return err
	}
	return p.validate()
}

func writeGatewayJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeGatewayError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if models.KindOf(err) == models.KindBadRequest {
		status = http.StatusBadRequest
	}
	writeGatewayJSON(w, status, map[string]string{"error": err.Error()})
}
