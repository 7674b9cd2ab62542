package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the marketplace stream
const (
	EventCarCreated  = "car_created"
	EventCarDeleted  = "car_deleted"
	EventMessageSent = "message_sent"
)

// Stream names
const (
	StreamMarketplace = "stream:marketplace"
)

// Event is a domain event appended to the marketplace stream after a write commits.
type Event struct {
	Type      string `json:"type"`      // EventCarCreated, EventCarDeleted, EventMessageSent
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	CarID    string `json:"car_id,omitempty"`
	SellerID string `json:"seller_id,omitempty"`

	// Message event
	MessageID  string `json:"message_id,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
}

func NewCarCreatedEvent(carID, sellerID string) Event {
	return Event{
		Type:      EventCarCreated,
		Timestamp: time.Now().Unix(),
		CarID:     carID,
		SellerID:  sellerID,
	}
}

func NewCarDeletedEvent(carID, sellerID string) Event {
	return Event{
		Type:      EventCarDeleted,
		Timestamp: time.Now().Unix(),
		CarID:     carID,
		SellerID:  sellerID,
	}
}

// NewMessageSentEvent lets downstream notifiers tell the receiver about a new message.
func NewMessageSentEvent(messageID, carID, senderID, receiverID string) Event {
	return Event{
		Type:       EventMessageSent,
		Timestamp:  time.Now().Unix(),
		MessageID:  messageID,
		CarID:      carID,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e Event) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEvent parses an Event from Redis stream message values.
func ParseEvent(values map[string]interface{}) (Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
