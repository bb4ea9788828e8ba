package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func addUser(t *testing.T, store *fakeStorage, name, email string) models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return *user
}

func addItem(t *testing.T, store *fakeStorage, ownerID int64, name string, available bool) models.Item {
	t.Helper()
	item := &models.Item{OwnerID: ownerID, Name: name, Description: name + " description", Available: available}
	require.NoError(t, store.CreateItem(context.Background(), item))
	return *item
}

func addBooking(t *testing.T, store *fakeStorage, itemID, bookerID int64, start, end time.Time, status models.Status) models.Booking {
	t.Helper()
	booking := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, store.CreateBooking(context.Background(), booking))
	return *booking
}
