package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := func() time.Time { return testNow }
	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, now, &logger)
	bookings := service.NewBookingService(db, events.NewEventBus(), config.PolicyConfig{}, now, &logger)
	requests := service.NewRequestService(db, now, &logger)

	return NewServer(config.ServerConfig{Port: 0}, users, items, bookings, requests, &logger)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != 0 {
		req.Header.Set(models.HeaderUserID, fmt.Sprintf("%d", userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createUserHTTP(t *testing.T, handler http.Handler, name, email string) models.UserDTO {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.UserDTO](t, rec)
}

func TestUserEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	alice := createUserHTTP(t, h, "Alice", "alice@example.com")
	assert.NotZero(t, alice.ID)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/users", 0, map[string]string{"name": "X", "email": "ALICE@example.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("get and list", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), 0, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Alice", decode[models.UserDTO](t, rec).Name)

		rec = doJSON(t, h, http.MethodGet, "/users", 0, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.UserDTO](t, rec), 1)
	})

	t.Run("patch merges", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), 0, map[string]string{"name": "Alice B"})
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decode[models.UserDTO](t, rec)
		assert.Equal(t, "Alice B", updated.Name)
		assert.Equal(t, "alice@example.com", updated.Email)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/users/999", 0, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), 0, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestItemEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	owner := createUserHTTP(t, h, "Owner", "owner@example.com")
	stranger := createUserHTTP(t, h, "Stranger", "stranger@example.com")

	rec := doJSON(t, h, http.MethodPost, "/items", owner.ID, map[string]any{
		"name": "Drill", "description": "800W power drill", "available": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	drill := decode[models.ItemDTO](t, rec)

	t.Run("missing header is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/items", 0, map[string]any{"name": "X", "available": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing available is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/items", owner.ID, map[string]any{"name": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch by stranger is 403", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), stranger.ID, map[string]any{"name": "Mine now"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("patch by owner merges", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"available": false})
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decode[models.ItemDTO](t, rec)
		assert.Equal(t, "Drill", updated.Name)
		assert.False(t, updated.Available)

		rec = doJSON(t, h, http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"available": true})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("search", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/items/search?text=dRiLl", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.ItemDTO](t, rec), 1)

		rec = doJSON(t, h, http.MethodGet, "/items/search?text=", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]models.ItemDTO](t, rec))
	})

	t.Run("owner listing", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/items", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decode[[]models.ItemWithBookingsDTO](t, rec)
		require.Len(t, listed, 1)
		assert.Equal(t, drill.ID, listed[0].ID)
	})

	t.Run("listing without items is 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/items", stranger.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// Drives the booking lifecycle through the HTTP surface: create, approve,
// list as owner, then comment after the booking ends.
func TestBookingAndCommentFlow(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	owner := createUserHTTP(t, h, "Owner", "owner@example.com")
	booker := createUserHTTP(t, h, "Booker", "booker@example.com")
	stranger := createUserHTTP(t, h, "Stranger", "stranger@example.com")

	rec := doJSON(t, h, http.MethodPost, "/items", owner.ID, map[string]any{
		"name": "Drill", "description": "800W", "available": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	drill := decode[models.ItemDTO](t, rec)

	// A booking that already ended, to unlock commenting.
	rec = doJSON(t, h, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": drill.ID,
		"start":  testNow.Add(-72 * time.Hour),
		"end":    testNow.Add(-48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ended := decode[models.BookingDTO](t, rec)
	assert.Equal(t, models.StatusWaiting, ended.Status)

	// An upcoming booking.
	rec = doJSON(t, h, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": drill.ID,
		"start":  testNow.Add(10 * 24 * time.Hour),
		"end":    testNow.Add(11 * 24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	upcoming := decode[models.BookingDTO](t, rec)

	t.Run("stranger cannot approve", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", upcoming.ID), stranger.ID, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner approves", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", upcoming.ID), owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.StatusApproved, decode[models.BookingDTO](t, rec).Status)
	})

	t.Run("booking detail is private", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/bookings/%d", upcoming.ID), stranger.ID, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/bookings/%d", upcoming.ID), booker.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("booker list by state", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/bookings?state=FUTURE", booker.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decode[[]models.BookingDTO](t, rec)
		require.Len(t, listed, 1)
		assert.Equal(t, upcoming.ID, listed[0].ID)
		assert.Equal(t, "Drill", listed[0].Item.Name)

		rec = doJSON(t, h, http.MethodGet, "/bookings?state=CURRENT", booker.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/bookings?state=BOGUS", booker.ID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("owner list shows last and next", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/bookings/owner?state=ALL", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.BookingDTO](t, rec), 2)

		rec = doJSON(t, h, http.MethodGet, "/items", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]models.ItemWithBookingsDTO](t, rec)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].LastBooking)
		assert.Equal(t, ended.ID, items[0].LastBooking.ID)
		require.NotNil(t, items[0].NextBooking)
		assert.Equal(t, upcoming.ID, items[0].NextBooking.ID)
	})

	t.Run("owner without items gets 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/bookings/owner?state=ALL", stranger.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("comment after ended booking", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/items/%d/comment", drill.ID), booker.ID, map[string]string{"text": "great drill"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		comment := decode[models.CommentDTO](t, rec)
		assert.Equal(t, "Booker", comment.AuthorName)
	})

	t.Run("comment by never-booked user is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/items/%d/comment", drill.ID), stranger.ID, map[string]string{"text": "nice"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("item detail carries comments", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/items/%d", drill.ID), stranger.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		detail := decode[models.ItemWithBookingsDTO](t, rec)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "great drill", detail.Comments[0].Text)
		assert.Nil(t, detail.LastBooking)
	})
}

func TestRequestEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	requester := createUserHTTP(t, h, "Requester", "requester@example.com")
	owner := createUserHTTP(t, h, "Owner", "owner@example.com")

	rec := doJSON(t, h, http.MethodPost, "/requests", requester.ID, map[string]string{"description": "need a ladder"})
	require.Equal(t, http.StatusCreated, rec.Code)
	request := decode[models.RequestDTO](t, rec)
	assert.Equal(t, requester.ID, request.Requester.ID)

	// An item offered against the request.
	rec = doJSON(t, h, http.MethodPost, "/items", owner.ID, map[string]any{
		"name": "Ladder", "description": "3m", "available": true, "requestId": request.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("own requests annotated with items", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/requests", requester.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decode[[]models.RequestWithItemsDTO](t, rec)
		require.Len(t, listed, 1)
		require.Len(t, listed[0].Items, 1)
		assert.Equal(t, "Ladder", listed[0].Items[0].Name)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/requests/%d", request.ID), owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[models.RequestWithItemsDTO](t, rec)
		assert.Len(t, got.Items, 1)
	})

	t.Run("list all without annotation", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/requests/all", owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.RequestDTO](t, rec), 1)
	})

	t.Run("no requests is 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/requests", owner.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
