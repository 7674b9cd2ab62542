package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"carmarket/internal/httputil"
	"carmarket/internal/model"
)

type MessageService interface {
	Send(ctx context.Context, p model.Principal, req *model.SendMessageRequest) (*model.Message, error)
	Thread(ctx context.Context, p model.Principal, carID, otherUserID string) ([]model.Message, error)
	Conversations(ctx context.Context, p model.Principal) ([]model.ConversationSummary, error)
}

type MessageHandler struct {
	messageService MessageService
}

func NewMessageHandler(messageService MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// List handles GET /messages
// With both carId and otherUserId it returns that thread and marks it read;
// otherwise it returns the caller's conversation summaries.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	carID := strings.TrimSpace(q.Get("carId"))
	otherUserID := strings.TrimSpace(q.Get("otherUserId"))

	if carID != "" && otherUserID != "" {
		thread, err := h.messageService.Thread(r.Context(), p, carID, otherUserID)
		if err != nil {
			log.Printf("[ERROR] Thread handler: user=%s car=%s other=%s err=%v", p.ID, carID, otherUserID, err)
			httputil.WriteInternalError(w, "Failed to fetch messages")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, thread)
		return
	}

	conversations, err := h.messageService.Conversations(r.Context(), p)
	if err != nil {
		log.Printf("[ERROR] Conversations handler: user=%s err=%v", p.ID, err)
		httputil.WriteInternalError(w, "Failed to fetch conversations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conversations)
}

// Send handles POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(r.Context(), p, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingMessageFields):
			httputil.WriteBadRequest(w, "content, receiverId and carId are required")
		case errors.Is(err, model.ErrCannotMessageSelf):
			httputil.WriteBadRequest(w, "You cannot message yourself")
		case errors.Is(err, model.ErrReceiverNotFound):
			httputil.WriteBadRequest(w, "Receiver not found")
		case errors.Is(err, model.ErrMessageCarNotFound):
			httputil.WriteBadRequest(w, "Car not found")
		default:
			log.Printf("[ERROR] Send message handler: user=%s err=%v", p.ID, err)
			httputil.WriteInternalError(w, "Failed to send message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, msg)
}
