package controllers_test

import (
	"net/http"
	"testing"

	"github.com/Kariqs/digistore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketConversation(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "admin@example.com")

	w := s.do(t, http.MethodPost, "/api/tickets", buyerEmail, map[string]string{"subject": "Broken link", "message": "404 on download"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ticket := decode[models.Ticket](t, w)

	w = s.do(t, http.MethodPost, "/api/tickets/messages", "admin@example.com", map[string]any{"ticketId": ticket.ID, "message": "Fixed the link"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode[models.TicketMessage](t, w).IsAdmin)

	w = s.do(t, http.MethodGet, "/api/tickets?id="+itoa(ticket.ID), buyerEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Ticket](t, w)
	assert.Equal(t, models.TicketStatusInProgress, got.Status)
	assert.Len(t, got.Messages, 2)

	w = s.do(t, http.MethodGet, "/api/tickets?id="+itoa(ticket.ID), "other@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, "/api/tickets", buyerEmail, map[string]any{"id": ticket.ID, "status": "closed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/tickets/messages", buyerEmail, map[string]any{"ticketId": ticket.ID, "message": "thanks"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ticket_closed", decode[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodGet, "/api/admin/tickets?status=closed", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Ticket](t, w), 1)
}
