package service

import (
	"context"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle and the state-classified list
// views for both the booker and the owner side.
type BookingService struct {
	store    domain.Storage
	eventBus domain.EventPublisher
	policy   config.PolicyConfig
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Storage, eventBus domain.EventPublisher, policy config.PolicyConfig, now func() time.Time, logger *zerolog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		policy:   policy,
		now:      now,
		logger:   logger,
	}
}

// Create books an item for the half-open window [start, end). The booking
// starts out WAITING until the owner decides.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (models.BookingDTO, error) {
	booker, err := s.store.GetUser(ctx, bookerID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return models.BookingDTO{}, err
	}

	if !item.Available {
		return models.BookingDTO{}, models.BadRequest("item %d is not available", itemID)
	}
	if !s.policy.OwnerBookingAllowed() && item.OwnerID == bookerID {
		return models.BookingDTO{}, models.NotFound("item %d cannot be booked by its owner", itemID)
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return models.BookingDTO{}, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Int64("booker_id", bookerID).Msg("booking created")
	return models.NewBookingDTO(*booking, *item, *booker), nil
}

// SetStatus approves or rejects a booking. Only the item owner may decide.
func (s *BookingService) SetStatus(ctx context.Context, callerID, bookingID int64, approved bool) (models.BookingDTO, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	// The authorization check needs only the owner id, not the whole item.
	ownerID, err := s.store.GetItemOwnerID(ctx, booking.ItemID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	if ownerID != callerID {
		return models.BookingDTO{}, models.Forbidden("user %d does not own item %d", callerID, booking.ItemID)
	}
	if !s.policy.StatusOverrideAllowed() && booking.Status != models.StatusWaiting {
		return models.BookingDTO{}, models.BadRequest("booking %d is already %s", bookingID, booking.Status)
	}

	status := models.StatusRejected
	event := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		event = events.EventBookingApproved
	}
	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return models.BookingDTO{}, err
	}
	booking.Status = status

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	booker, err := s.store.GetUser(ctx, booking.BookerID)
	if err != nil {
		return models.BookingDTO{}, err
	}

	s.publishEvent(event, booking)
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("booking status set")
	return models.NewBookingDTO(*booking, *item, *booker), nil
}

// Get returns the booking detail to its booker or the item owner.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID int64) (models.BookingDTO, error) {
	exists, err := s.store.UserExists(ctx, callerID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	if !exists {
		return models.BookingDTO{}, models.NotFound("user %d not found", callerID)
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	if callerID != booking.BookerID && callerID != item.OwnerID {
		return models.BookingDTO{}, models.Forbidden("user %d is neither booker nor owner of booking %d", callerID, bookingID)
	}

	booker, err := s.store.GetUser(ctx, booking.BookerID)
	if err != nil {
		return models.BookingDTO{}, err
	}
	return models.NewBookingDTO(*booking, *item, *booker), nil
}

// ListForBooker returns the caller's bookings classified by state against a
// single "now" captured once for the whole call.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state models.State) ([]models.BookingDTO, error) {
	exists, err := s.store.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("user %d not found", bookerID)
	}

	now := s.now()
	var bookings []models.Booking
	switch state {
	case models.StateAll:
		bookings, err = s.store.ListBookingsByBooker(ctx, bookerID)
	case models.StatePast:
		bookings, err = s.store.ListPastByBooker(ctx, bookerID, now)
	case models.StateCurrent:
		bookings, err = s.store.ListCurrentByBooker(ctx, bookerID, now)
	case models.StateFuture:
		bookings, err = s.store.ListFutureByBooker(ctx, bookerID, now)
	case models.StateWaiting:
		bookings, err = s.store.ListByStatusAndBooker(ctx, models.StatusWaiting, bookerID)
	case models.StateRejected:
		bookings, err = s.store.ListByStatusAndBooker(ctx, models.StatusRejected, bookerID)
	default:
		return nil, models.BadRequest("unknown booking state %q", state)
	}
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, models.NotFound("user %d has no %s bookings", bookerID, state)
	}
	return s.bookingDTOs(ctx, bookings)
}

// ListForOwner returns bookings across all the owner's items, classified by
// state. An owner without items gets NotFound.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state models.State) ([]models.BookingDTO, error) {
	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("user %d not found", ownerID)
	}

	itemIDs, err := s.store.ListItemIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return nil, models.NotFound("user %d has no items", ownerID)
	}

	now := s.now()
	var bookings []models.Booking
	switch state {
	case models.StateAll:
		bookings, err = s.store.ListBookingsByItems(ctx, itemIDs)
	case models.StatePast:
		bookings, err = s.store.ListPastByItems(ctx, itemIDs, now)
	case models.StateCurrent:
		bookings, err = s.store.ListCurrentByItems(ctx, itemIDs, now)
	case models.StateFuture:
		bookings, err = s.store.ListFutureByItems(ctx, itemIDs, now)
	case models.StateWaiting:
		bookings, err = s.store.ListByStatusAndItems(ctx, models.StatusWaiting, itemIDs)
	case models.StateRejected:
		bookings, err = s.store.ListByStatusAndItems(ctx, models.StatusRejected, itemIDs)
	default:
		return nil, models.BadRequest("unknown booking state %q", state)
	}
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, models.NotFound("user %d has no %s bookings on owned items", ownerID, state)
	}
	return s.bookingDTOs(ctx, bookings)
}

// bookingDTOs assembles detail DTOs for a booking list, fetching the
// referenced items and bookers in one query each.
func (s *BookingService) bookingDTOs(ctx context.Context, bookings []models.Booking) ([]models.BookingDTO, error) {
	itemIDs := make([]int64, 0, len(bookings))
	userIDs := make([]int64, 0, len(bookings))
	seenItems := make(map[int64]bool)
	seenUsers := make(map[int64]bool)
	for _, b := range bookings {
		if !seenItems[b.ItemID] {
			seenItems[b.ItemID] = true
			itemIDs = append(itemIDs, b.ItemID)
		}
		if !seenUsers[b.BookerID] {
			seenUsers[b.BookerID] = true
			userIDs = append(userIDs, b.BookerID)
		}
	}

	items, err := s.store.ListItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	itemByID := make(map[int64]models.Item, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
	}
	userByID := make(map[int64]models.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	dtos := make([]models.BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, models.NewBookingDTO(b, itemByID[b.ItemID], userByID[b.BookerID]))
	}
	return dtos, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish booking event")
	}
}
