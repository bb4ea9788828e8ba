package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Storage is the persistence contract consumed by the service layer. The
// production implementation is the SQLite adapter in internal/database;
// tests use a deterministic in-memory fake.
type Storage interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserEmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	// Items.
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemOwnerID(ctx context.Context, itemID int64) (int64, error)
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	ListItemIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	ListItemsByIDs(ctx context.Context, ids []int64) ([]models.Item, error)
	ListItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error)
	SearchItems(ctx context.Context, text string) ([]models.Item, error)

	// Bookings.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error
	HasBookingsByBooker(ctx context.Context, bookerID int64) (bool, error)
	BookingEndForUserAndItem(ctx context.Context, userID, itemID int64) (time.Time, error)
	ListBookingsByBooker(ctx context.Context, bookerID int64) ([]models.Booking, error)
	ListPastByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error)
	ListCurrentByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error)
	ListFutureByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error)
	ListByStatusAndBooker(ctx context.Context, status models.Status, bookerID int64) ([]models.Booking, error)
	ListBookingsByItems(ctx context.Context, itemIDs []int64) ([]models.Booking, error)
	ListPastByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error)
	ListCurrentByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error)
	ListFutureByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error)
	ListByStatusAndItems(ctx context.Context, status models.Status, itemIDs []int64) ([]models.Booking, error)
	LastBookingsByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error)
	NextBookingsByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error)

	// Comments.
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	ListCommentsByItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error)

	// Requests.
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequest(ctx context.Context, id int64) (*models.Request, error)
	ListRequestsByUser(ctx context.Context, userID int64) ([]models.Request, error)
	ListRequests(ctx context.Context, limit, offset int) ([]models.Request, error)
}

// RateLimiter bounds request frequency per caller key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher emits domain events for in-process consumers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
