package services

import (
	"context"
	"testing"

	"github.com/Kariqs/digistore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = Identity{Subject: "user_admin", Email: "admin@example.com", Name: "Support"}

func TestTicketLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db, nil)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, buyer, "Download broken", "The zip is empty", "")
	require.NoError(t, err)
	assert.Equal(t, "medium", ticket.Priority)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	require.Len(t, ticket.Messages, 1)

	_, err = svc.Reply(ctx, admin, true, ticket.ID, "Looking into it")
	require.NoError(t, err)
	got, err := svc.Get(ctx, buyer, false, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusInProgress, got.Status)
	require.Len(t, got.Messages, 2)
	assert.True(t, got.Messages[1].IsAdmin)

	_, err = svc.UpdateStatus(ctx, admin, true, ticket.ID, models.TicketStatusResolved)
	require.NoError(t, err)

	// Admin replies keep a resolved ticket resolved.
	_, err = svc.Reply(ctx, admin, true, ticket.ID, "Fixed")
	require.NoError(t, err)
	got, err = svc.Get(ctx, buyer, false, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusResolved, got.Status)

	_, err = svc.Reply(ctx, buyer, false, ticket.ID, "Still broken")
	require.NoError(t, err)
	got, err = svc.Get(ctx, buyer, false, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, got.Status)

	_, err = svc.UpdateStatus(ctx, buyer, false, ticket.ID, models.TicketStatusClosed)
	require.NoError(t, err)
	_, err = svc.Reply(ctx, admin, true, ticket.ID, "Anything else?")
	assert.ErrorIs(t, err, ErrTicketClosed)
}

func TestTicketAccessIsScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db, nil)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, buyer, "Refund", "Please", "high")
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, false, ticket.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Reply(ctx, stranger, false, ticket.ID, "me too")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateStatus(ctx, stranger, false, ticket.ID, models.TicketStatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.ListForOwner(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := svc.ListAll(ctx, models.TicketStatusOpen)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTicketValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, buyer, " ", "body", "low")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, buyer, "Subject", "body", "urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, Identity{}, "Subject", "body", "low")
	assert.ErrorIs(t, err, ErrUnauthorized)

	ticket, err := svc.Create(ctx, buyer, "Subject", "body", "low")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, buyer, false, ticket.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Reply(ctx, buyer, false, ticket.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
