package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	store    domain.Storage
	pageSize int
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewRequestService(store domain.Storage, now func() time.Time, logger *zerolog.Logger) *RequestService {
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		store:    store,
		pageSize: models.RequestPageSize,
		now:      now,
		logger:   logger,
	}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (models.RequestDTO, error) {
	requester, err := s.store.GetUser(ctx, requesterID)
	if err != nil {
		return models.RequestDTO{}, err
	}

	request := &models.Request{
		RequesterID: requesterID,
		Description: description,
		Created:     s.now(),
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return models.RequestDTO{}, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("request created")
	return models.NewRequestDTO(*request, *requester), nil
}

// ListByUser returns the user's own requests in creation order, each
// annotated with the items offered against it.
func (s *RequestService) ListByUser(ctx context.Context, userID int64) ([]models.RequestWithItemsDTO, error) {
	requester, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.ListRequestsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, models.NotFound("user %d has no requests", userID)
	}

	requestIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		requestIDs = append(requestIDs, r.ID)
	}
	items, err := s.store.ListItemsByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	itemsByRequest := make(map[int64][]models.Item)
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		itemsByRequest[*item.RequestID] = append(itemsByRequest[*item.RequestID], item)
	}

	dtos := make([]models.RequestWithItemsDTO, 0, len(requests))
	for _, r := range requests {
		dtos = append(dtos, models.NewRequestWithItemsDTO(r, *requester, itemsByRequest[r.ID]))
	}
	return dtos, nil
}

// Get returns a single request annotated with its items. Any known user may
// look.
func (s *RequestService) Get(ctx context.Context, callerID, requestID int64) (models.RequestWithItemsDTO, error) {
	exists, err := s.store.UserExists(ctx, callerID)
	if err != nil {
		return models.RequestWithItemsDTO{}, err
	}
	if !exists {
		return models.RequestWithItemsDTO{}, models.NotFound("user %d not found", callerID)
	}

	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return models.RequestWithItemsDTO{}, err
	}
	requester, err := s.store.GetUser(ctx, request.RequesterID)
	if err != nil {
		return models.RequestWithItemsDTO{}, err
	}
	items, err := s.store.ListItemsByRequestIDs(ctx, []int64{requestID})
	if err != nil {
		return models.RequestWithItemsDTO{}, err
	}

	return models.NewRequestWithItemsDTO(*request, *requester, items), nil
}

// ListAll returns the first page of everyone's requests in creation order,
// without item annotation.
func (s *RequestService) ListAll(ctx context.Context, callerID int64) ([]models.RequestDTO, error) {
	exists, err := s.store.UserExists(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("user %d not found", callerID)
	}

	requests, err := s.store.ListRequests(ctx, s.pageSize, 0)
	if err != nil {
		return nil, err
	}

	requesterIDs := make([]int64, 0, len(requests))
	seen := make(map[int64]bool)
	for _, r := range requests {
		if !seen[r.RequesterID] {
			seen[r.RequesterID] = true
			requesterIDs = append(requesterIDs, r.RequesterID)
		}
	}
	requesters, err := s.store.ListUsersByIDs(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}
	requesterByID := make(map[int64]models.User, len(requesters))
	for _, u := range requesters {
		requesterByID[u.ID] = u
	}

	dtos := make([]models.RequestDTO, 0, len(requests))
	for _, r := range requests {
		dtos = append(dtos, models.NewRequestDTO(r, requesterByID[r.RequesterID]))
	}
	return dtos, nil
}
