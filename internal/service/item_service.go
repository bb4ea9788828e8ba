package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	store  domain.Storage
	now    func() time.Time
	logger *zerolog.Logger
}

func NewItemService(store domain.Storage, now func() time.Time, logger *zerolog.Logger) *ItemService {
	if now == nil {
		now = time.Now
	}
	return &ItemService{store: store, now: now, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, name, description string, available bool, requestID *int64) (models.ItemDTO, error) {
	if strings.TrimSpace(name) == "" {
		return models.ItemDTO{}, models.BadRequest("item name must not be blank")
	}

	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return models.ItemDTO{}, err
	}
	if !exists {
		return models.ItemDTO{}, models.NotFound("user %d not found", ownerID)
	}

	if requestID != nil {
		if _, err := s.store.GetRequest(ctx, *requestID); err != nil {
			return models.ItemDTO{}, err
		}
	}

	item := &models.Item{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Available:   available,
		RequestID:   requestID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return models.ItemDTO{}, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return models.NewItemDTO(*item, nil), nil
}

// Update merges only the provided fields into the stored item. Only the
// owner may update.
func (s *ItemService) Update(ctx context.Context, callerID, itemID int64, name, description *string, available *bool) (models.ItemDTO, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return models.ItemDTO{}, err
	}
	if item.OwnerID != callerID {
		return models.ItemDTO{}, models.Forbidden("user %d does not own item %d", callerID, itemID)
	}

	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return models.ItemDTO{}, models.BadRequest("item name must not be blank")
		}
		item.Name = *name
	}
	if description != nil {
		item.Description = *description
	}
	if available != nil {
		item.Available = *available
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return models.ItemDTO{}, err
	}

	s.logger.Info().Int64("item_id", itemID).Msg("item updated")
	return models.NewItemDTO(*item, nil), nil
}

// AddComment stores a comment if the author ever booked anything and that
// author's booking on this specific item has already ended. Both gates must
// pass.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, text string) (models.CommentDTO, error) {
	// The eligibility gate comes first, so an unknown author reads as
	// "never booked anything" rather than a missing user.
	hasBookings, err := s.store.HasBookingsByBooker(ctx, authorID)
	if err != nil {
		return models.CommentDTO{}, err
	}
	if !hasBookings {
		return models.CommentDTO{}, models.BadRequest("user %d has never booked anything", authorID)
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return models.CommentDTO{}, err
	}
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return models.CommentDTO{}, err
	}

	now := s.now()
	end, err := s.store.BookingEndForUserAndItem(ctx, authorID, itemID)
	if err != nil {
		if models.IsKind(err, models.KindNotFound) {
			return models.CommentDTO{}, models.BadRequest("user %d has no booking on item %d", authorID, itemID)
		}
		return models.CommentDTO{}, err
	}
	if !end.Before(now) {
		return models.CommentDTO{}, models.BadRequest("booking of item %d by user %d has not ended yet", itemID, authorID)
	}

	comment := &models.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
		Created:  now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return models.CommentDTO{}, err
	}

	s.logger.Info().Int64("item_id", itemID).Int64("author_id", authorID).Msg("comment added")
	return models.NewCommentDTO(*comment, author.Name), nil
}

// Get returns the item detail with its comments. Booking windows are not
// part of the detail view, whoever asks.
func (s *ItemService) Get(ctx context.Context, itemID int64) (models.ItemWithBookingsDTO, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return models.ItemWithBookingsDTO{}, err
	}

	comments, err := s.store.ListCommentsByItem(ctx, itemID)
	if err != nil {
		return models.ItemWithBookingsDTO{}, err
	}
	commentDTOs, err := s.commentDTOs(ctx, comments)
	if err != nil {
		return models.ItemWithBookingsDTO{}, err
	}

	return models.NewItemWithBookingsDTO(*item, nil, nil, commentDTOs), nil
}

// ListForOwner returns every item the owner holds, each annotated with the
// chronologically last ended booking, the nearest upcoming booking and all
// comments. A single "now" anchors the whole listing, and bookings and
// comments are fetched for the item set at once and grouped per item. An
// owner without items gets NotFound.
func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64) ([]models.ItemWithBookingsDTO, error) {
	items, err := s.store.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NotFound("user %d has no items", ownerID)
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	now := s.now()
	lastBookings, err := s.store.LastBookingsByItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	nextBookings, err := s.store.NextBookingsByItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	// Rows come back in extremum-first order, so the first booking seen per
	// item wins.
	lastByItem := firstBookingPerItem(lastBookings)
	nextByItem := firstBookingPerItem(nextBookings)

	commentsByItem := make(map[int64][]models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	dtos := make([]models.ItemWithBookingsDTO, 0, len(items))
	for _, item := range items {
		commentDTOs, err := s.commentDTOs(ctx, commentsByItem[item.ID])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, models.NewItemWithBookingsDTO(item, lastByItem[item.ID], nextByItem[item.ID], commentDTOs))
	}
	return dtos, nil
}

// Search matches the text against item names and descriptions. A blank
// query yields an empty result without touching the store.
func (s *ItemService) Search(ctx context.Context, text string) ([]models.ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []models.ItemDTO{}, nil
	}

	items, err := s.store.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, models.NewItemDTO(item, nil))
	}
	return dtos, nil
}

func firstBookingPerItem(bookings []models.Booking) map[int64]*models.Booking {
	byItem := make(map[int64]*models.Booking)
	for i := range bookings {
		b := bookings[i]
		if _, seen := byItem[b.ItemID]; !seen {
			byItem[b.ItemID] = &b
		}
	}
	return byItem
}

func (s *ItemService) commentDTOs(ctx context.Context, comments []models.Comment) ([]models.CommentDTO, error) {
	if len(comments) == 0 {
		return []models.CommentDTO{}, nil
	}

	authorIDs := make([]int64, 0, len(comments))
	seen := make(map[int64]bool)
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}

	authors, err := s.store.ListUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[int64]string, len(authors))
	for _, u := range authors {
		nameByID[u.ID] = u.Name
	}

	dtos := make([]models.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, models.NewCommentDTO(c, nameByID[c.AuthorID]))
	}
	return dtos, nil
}
