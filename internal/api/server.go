package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server exposes the core item-sharing API over HTTP. It trusts the
// gateway for payload shape validation and re-validates only what would
// corrupt data.
type Server struct {
	cfg      config.ServerConfig
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
	server   *http.Server
	log      zerolog.Logger
}

func NewServer(
	cfg config.ServerConfig,
	users *service.UserService,
	items *service.ItemService,
	bookings *service.BookingService,
	requests *service.RequestService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		log:      logger.With().Str("component", "api").Logger(),
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(&s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/", s.handleListUsers)
		r.Get("/{userId}", s.handleGetUser)
		r.Patch("/{userId}", s.handleUpdateUser)
		r.Delete("/{userId}", s.handleDeleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", s.handleCreateItem)
		r.Get("/", s.handleListOwnerItems)
		r.Get("/search", s.handleSearchItems)
		r.Get("/{itemId}", s.handleGetItem)
		r.Patch("/{itemId}", s.handleUpdateItem)
		r.Post("/{itemId}/comment", s.handleAddComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.handleCreateBooking)
		r.Get("/", s.handleListBookerBookings)
		r.Get("/owner", s.handleListOwnerBookings)
		r.Get("/{bookingId}", s.handleGetBooking)
		r.Patch("/{bookingId}", s.handleSetBookingStatus)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", s.handleCreateRequest)
		r.Get("/", s.handleListUserRequests)
		r.Get("/all", s.handleListAllRequests)
		r.Get("/{requestId}", s.handleGetRequest)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID extracts the caller identity header.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(models.HeaderUserID)
	if raw == "" {
		return 0, models.BadRequest("%s header is required", models.HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, models.BadRequest("%s header must be numeric", models.HeaderUserID)
	}
	return id, nil
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, models.BadRequest("%s must be numeric", name)
	}
	return id, nil
}
