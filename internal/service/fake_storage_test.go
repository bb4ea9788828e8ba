package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"shareit/internal/models"
)

// fakeStorage is a deterministic in-memory Storage used by the service
// tests. Query ordering mirrors the SQL adapter.
type fakeStorage struct {
	users    map[int64]models.User
	items    map[int64]models.Item
	bookings map[int64]models.Booking
	comments map[int64]models.Comment
	requests map[int64]models.Request
	nextID   int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:    make(map[int64]models.User),
		items:    make(map[int64]models.Item),
		bookings: make(map[int64]models.Booking),
		comments: make(map[int64]models.Comment),
		requests: make(map[int64]models.Request),
	}
}

func (f *fakeStorage) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStorage) CreateUser(_ context.Context, user *models.User) error {
	user.ID = f.id()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStorage) GetUser(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.NotFound("user %d not found", id)
	}
	return &user, nil
}

func (f *fakeStorage) UpdateUser(_ context.Context, user *models.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStorage) DeleteUser(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeStorage) UserExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeStorage) ListUsers(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeStorage) ListUsersByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, models.NotFound("user with email %s not found", email)
}

func (f *fakeStorage) UserEmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range f.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStorage) CreateItem(_ context.Context, item *models.Item) error {
	item.ID = f.id()
	f.items[item.ID] = *item
	return nil
}

func (f *fakeStorage) GetItem(_ context.Context, id int64) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, models.NotFound("item %d not found", id)
	}
	return &item, nil
}

func (f *fakeStorage) UpdateItem(_ context.Context, item *models.Item) error {
	f.items[item.ID] = *item
	return nil
}

func (f *fakeStorage) GetItemOwnerID(_ context.Context, itemID int64) (int64, error) {
	item, ok := f.items[itemID]
	if !ok {
		return 0, models.NotFound("item %d not found", itemID)
	}
	return item.OwnerID, nil
}

func (f *fakeStorage) ListItemsByOwner(_ context.Context, ownerID int64) ([]models.Item, error) {
	var items []models.Item
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeStorage) ListItemIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	items, _ := f.ListItemsByOwner(ctx, ownerID)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (f *fakeStorage) ListItemsByIDs(_ context.Context, ids []int64) ([]models.Item, error) {
	var items []models.Item
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStorage) ListItemsByRequestIDs(_ context.Context, requestIDs []int64) ([]models.Item, error) {
	wanted := make(map[int64]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	var items []models.Item
	for _, item := range f.items {
		if item.RequestID != nil && wanted[*item.RequestID] {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeStorage) SearchItems(_ context.Context, text string) ([]models.Item, error) {
	needle := strings.ToLower(text)
	var items []models.Item
	for _, item := range f.items {
		if !item.Available {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeStorage) CreateBooking(_ context.Context, booking *models.Booking) error {
	booking.ID = f.id()
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeStorage) GetBooking(_ context.Context, id int64) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, models.NotFound("booking %d not found", id)
	}
	return &booking, nil
}

func (f *fakeStorage) UpdateBookingStatus(_ context.Context, id int64, status models.Status) error {
	booking, ok := f.bookings[id]
	if !ok {
		return models.NotFound("booking %d not found", id)
	}
	booking.Status = status
	f.bookings[id] = booking
	return nil
}

func (f *fakeStorage) HasBookingsByBooker(_ context.Context, bookerID int64) (bool, error) {
	for _, b := range f.bookings {
		if b.BookerID == bookerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStorage) BookingEndForUserAndItem(_ context.Context, userID, itemID int64) (time.Time, error) {
	var earliest time.Time
	found := false
	for _, b := range f.bookings {
		if b.BookerID != userID || b.ItemID != itemID {
			continue
		}
		if !found || b.End.Before(earliest) {
			earliest = b.End
			found = true
		}
	}
	if !found {
		return time.Time{}, models.NotFound("user %d has no bookings on item %d", userID, itemID)
	}
	return earliest, nil
}

func (f *fakeStorage) bookingsWhere(keep func(models.Booking) bool) []models.Booking {
	var bookings []models.Booking
	for _, b := range f.bookings {
		if keep(b) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.After(bookings[j].Start) })
	return bookings
}

func (f *fakeStorage) ListBookingsByBooker(_ context.Context, bookerID int64) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool { return b.BookerID == bookerID }), nil
}

func (f *fakeStorage) ListPastByBooker(_ context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return b.BookerID == bookerID && b.End.Before(now)
	}), nil
}

func (f *fakeStorage) ListCurrentByBooker(_ context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return b.BookerID == bookerID && !b.Start.After(now) && !b.End.Before(now)
	}), nil
}

func (f *fakeStorage) ListFutureByBooker(_ context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return b.BookerID == bookerID && b.Start.After(now)
	}), nil
}

func (f *fakeStorage) ListByStatusAndBooker(_ context.Context, status models.Status, bookerID int64) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return b.BookerID == bookerID && b.Status == status
	}), nil
}

func inItems(itemIDs []int64, id int64) bool {
	for _, itemID := range itemIDs {
		if itemID == id {
			return true
		}
	}
	return false
}

func (f *fakeStorage) ListBookingsByItems(_ context.Context, itemIDs []int64) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool { return inItems(itemIDs, b.ItemID) }), nil
}

func (f *fakeStorage) ListPastByItems(_ context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && b.End.Before(now)
	}), nil
}

func (f *fakeStorage) ListCurrentByItems(_ context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && !b.Start.After(now) && !b.End.Before(now)
	}), nil
}

func (f *fakeStorage) ListFutureByItems(_ context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && b.Start.After(now)
	}), nil
}

func (f *fakeStorage) ListByStatusAndItems(_ context.Context, status models.Status, itemIDs []int64) ([]models.Booking, error) {
	return f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && b.Status == status
	}), nil
}

func (f *fakeStorage) LastBookingsByItems(_ context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	bookings := f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && b.End.Before(now)
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].End.After(bookings[j].End) })
	return bookings, nil
}

func (f *fakeStorage) NextBookingsByItems(_ context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	bookings := f.bookingsWhere(func(b models.Booking) bool {
		return inItems(itemIDs, b.ItemID) && b.Start.After(now)
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.Before(bookings[j].Start) })
	return bookings, nil
}

func (f *fakeStorage) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = f.id()
	f.comments[comment.ID] = *comment
	return nil
}

func (f *fakeStorage) ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	return f.ListCommentsByItems(ctx, []int64{itemID})
}

func (f *fakeStorage) ListCommentsByItems(_ context.Context, itemIDs []int64) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range f.comments {
		if inItems(itemIDs, c.ItemID) {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Created.Before(comments[j].Created) })
	return comments, nil
}

func (f *fakeStorage) CreateRequest(_ context.Context, request *models.Request) error {
	request.ID = f.id()
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeStorage) GetRequest(_ context.Context, id int64) (*models.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, models.NotFound("request %d not found", id)
	}
	return &request, nil
}

func (f *fakeStorage) ListRequestsByUser(_ context.Context, userID int64) ([]models.Request, error) {
	var requests []models.Request
	for _, r := range f.requests {
		if r.RequesterID == userID {
			requests = append(requests, r)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Created.Before(requests[j].Created) })
	return requests, nil
}

func (f *fakeStorage) ListRequests(_ context.Context, limit, offset int) ([]models.Request, error) {
	requests := make([]models.Request, 0, len(f.requests))
	for _, r := range f.requests {
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Created.Before(requests[j].Created) })
	if offset >= len(requests) {
		return nil, nil
	}
	requests = requests[offset:]
	if limit < len(requests) {
		requests = requests[:limit]
	}
	return requests, nil
}
