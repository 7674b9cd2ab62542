package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
	"carmarket/internal/queue"
	"carmarket/internal/repository"
)

type MessageService struct {
	messages  repository.MessageRepository
	cars      repository.CarRepository
	users     repository.UserRepository
	tx        repository.Transactor
	publisher queue.Publisher
}

func NewMessageService(
	messages repository.MessageRepository,
	cars repository.CarRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	publisher queue.Publisher,
) *MessageService {
	return &MessageService{
		messages:  messages,
		cars:      cars,
		users:     users,
		tx:        tx,
		publisher: publisher,
	}
}

// Send stores a message from p about a listing. The message starts unread.
func (s *MessageService) Send(ctx context.Context, p model.Principal, req *model.SendMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	receiverID := strings.TrimSpace(req.ReceiverID)
	carID := strings.TrimSpace(req.CarID)

	if content == "" || receiverID == "" || carID == "" {
		return nil, model.ErrMissingMessageFields
	}
	if receiverID == p.ID {
		return nil, model.ErrCannotMessageSelf
	}
	if _, err := uuid.Parse(carID); err != nil {
		return nil, model.ErrMessageCarNotFound
	}

	exists, err := s.cars.Exists(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if !exists {
		return nil, model.ErrMessageCarNotFound
	}

	msg := &model.Message{
		ID:         uuid.NewString(),
		Content:    content,
		SenderID:   p.ID,
		ReceiverID: receiverID,
		CarID:      carID,
	}

	var stored *model.Message
	err = s.tx.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := s.users.Ensure(ctx, tx, p); err != nil {
			return err
		}
		if err := s.messages.Create(ctx, tx, msg); err != nil {
			return err
		}
		var err error
		stored, err = s.messages.GetByID(ctx, tx, msg.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrReceiverNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("send message: %w", err)
	}

	if s.publisher != nil {
		event := queue.NewMessageSentEvent(stored.ID, stored.CarID, stored.SenderID, stored.ReceiverID)
		if _, err := s.publisher.Publish(ctx, queue.StreamMarketplace, event); err != nil {
			log.Printf("[MessageService] Failed to publish message_sent event: message=%s err=%v", stored.ID, err)
		}
	}

	return stored, nil
}

// Thread returns the messages between p and otherUserID about carID, oldest
// first, after marking the ones addressed to p as read.
func (s *MessageService) Thread(ctx context.Context, p model.Principal, carID, otherUserID string) ([]model.Message, error) {
	if _, err := uuid.Parse(carID); err != nil {
		return []model.Message{}, nil
	}

	var thread []model.Message
	err := s.tx.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if _, err := s.messages.MarkThreadRead(ctx, tx, carID, p.ID, otherUserID); err != nil {
			return err
		}
		var err error
		thread, err = s.messages.Thread(ctx, tx, carID, p.ID, otherUserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}
	if thread == nil {
		thread = []model.Message{}
	}
	return thread, nil
}

// Conversations lists one summary per (car, counterpart) that p takes part in.
func (s *MessageService) Conversations(ctx context.Context, p model.Principal) ([]model.ConversationSummary, error) {
	messages, err := s.messages.ListForUser(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return GroupConversations(p.ID, messages), nil
}
