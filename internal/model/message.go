package model

import (
	"fmt"
	"time"
)

// Message is one directed chat message about a listing.
type Message struct {
	ID         string    `db:"id" json:"id"`
	Content    string    `db:"content" json:"content"`
	SenderID   string    `db:"sender_id" json:"senderId"`
	ReceiverID string    `db:"receiver_id" json:"receiverId"`
	CarID      string    `db:"car_id" json:"carId"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	// Joined fields (users table)
	Sender   *Participant `db:"sender" json:"sender,omitempty"`
	Receiver *Participant `db:"receiver" json:"receiver,omitempty"`
}

// ConversationMessage is a message with the listing it refers to.
// Car is nil once the listing has been deleted.
type ConversationMessage struct {
	Message
	Car *CarSummary
}

// ConversationSummary is the derived view of one (car, counterpart) thread.
type ConversationSummary struct {
	CarID       string       `json:"carId"`
	OtherUserID string       `json:"otherUserId"`
	OtherUser   *Participant `json:"otherUser"`
	Car         *CarSummary  `json:"car"` // null when the listing was removed
	LastMessage Message      `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}

// SendMessageRequest is the request body for POST /messages.
type SendMessageRequest struct {
	Content    string `json:"content"`
	ReceiverID string `json:"receiverId"`
	CarID      string `json:"carId"`
}

// Messaging errors are client errors: each matches ErrInvalidInput.
var (
	ErrMissingMessageFields = fmt.Errorf("%w: content, receiverId and carId are required", ErrInvalidInput)
	ErrCannotMessageSelf    = fmt.Errorf("%w: cannot send a message to yourself", ErrInvalidInput)
	ErrReceiverNotFound     = fmt.Errorf("%w: receiver does not exist", ErrInvalidInput)
	ErrMessageCarNotFound   = fmt.Errorf("%w: car does not exist", ErrInvalidInput)
)
