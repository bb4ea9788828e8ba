package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/models"
)

type createBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.BadRequest("invalid request body"))
		return
	}

	booking, err := s.bookings.Create(r.Context(), bookerID, req.ItemID, req.Start, req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleSetBookingStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, models.BadRequest("approved query parameter must be true or false"))
		return
	}

	booking, err := s.bookings.SetStatus(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.bookings.Get(r.Context(), caller, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	bookerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := models.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, err)
		return
	}

	bookings, err := s.bookings.ListForBooker(r.Context(), bookerID, state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := models.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, err)
		return
	}

	bookings, err := s.bookings.ListForOwner(r.Context(), ownerID, state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
