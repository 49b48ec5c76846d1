package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/gin-gonic/gin"
)

func isAdminRequest(ctx *gin.Context, email string) (bool, bool) {
	isAdmin, err := middlewares.IsAdmin(ctx, email)
	if err != nil {
		respondWithError(ctx, "Failed to check permissions", err)
		return false, false
	}
	return isAdmin, true
}

// GetTickets lists the caller's tickets, or one ticket with ?id=.
func GetTickets(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	if idStr := ctx.Query("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid ticket ID")
			return
		}
		isAdmin, ok := isAdminRequest(ctx, identity.Email)
		if !ok {
			return
		}
		ticket, err := ticketService().Get(ctx.Request.Context(), identity, isAdmin, uint(id))
		if err != nil {
			respondWithError(ctx, "Failed to fetch ticket", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, ticket)
		return
	}

	tickets, err := ticketService().ListForOwner(ctx.Request.Context(), identity)
	if err != nil {
		respondWithError(ctx, "Failed to fetch tickets", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, tickets)
}

func CreateTicket(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body struct {
		Subject  string `json:"subject"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Subject and message are required")
		return
	}
	ticket, err := ticketService().Create(ctx.Request.Context(), identity, body.Subject, body.Message, body.Priority)
	if err != nil {
		respondWithError(ctx, "Failed to create ticket", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, ticket)
}

func UpdateTicketStatus(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body struct {
		ID     uint   `json:"id" binding:"required"`
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Ticket ID and status are required")
		return
	}
	isAdmin, ok := isAdminRequest(ctx, identity.Email)
	if !ok {
		return
	}
	ticket, err := ticketService().UpdateStatus(ctx.Request.Context(), identity, isAdmin, body.ID, body.Status)
	if err != nil {
		respondWithError(ctx, "Failed to update ticket", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, ticket)
}

func ReplyToTicket(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var body struct {
		TicketID uint   `json:"ticketId"`
		Message  string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Ticket ID and message are required")
		return
	}
	isAdmin, ok := isAdminRequest(ctx, identity.Email)
	if !ok {
		return
	}
	msg, err := ticketService().Reply(ctx.Request.Context(), identity, isAdmin, body.TicketID, body.Message)
	if err != nil {
		respondWithError(ctx, "Failed to add message", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, msg)
}

func GetAllTickets(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	if idStr := ctx.Query("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid ticket ID")
			return
		}
		ticket, err := ticketService().Get(ctx.Request.Context(), identity, true, uint(id))
		if err != nil {
			respondWithError(ctx, "Failed to fetch ticket", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, ticket)
		return
	}
	tickets, err := ticketService().ListAll(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		respondWithError(ctx, "Failed to fetch tickets", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, tickets)
}
