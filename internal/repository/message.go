package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"carmarket/internal/model"
)

const messageColumns = `
	m.id, m.content, m.sender_id, m.receiver_id, m.car_id, m.read, m.created_at,
	s.id AS "sender.id", s.full_name AS "sender.full_name", s.avatar AS "sender.avatar", s.email AS "sender.email",
	rc.id AS "receiver.id", rc.full_name AS "receiver.full_name", rc.avatar AS "receiver.avatar", rc.email AS "receiver.email"`

const messageJoins = `
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users rc ON rc.id = m.receiver_id`

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, tx *sqlx.Tx, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, content, sender_id, receiver_id, car_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING read, created_at
	`
	err := pick(r.db, tx).QueryRowxContext(ctx, query,
		msg.ID, msg.Content, msg.SenderID, msg.ReceiverID, msg.CarID,
	).Scan(&msg.Read, &msg.CreatedAt)
	if err != nil {
		if pqCode(err) == pgForeignKeyViolation {
			return model.ErrReceiverNotFound
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, tx *sqlx.Tx, id string) (*model.Message, error) {
	query := `SELECT ` + messageColumns + messageJoins + ` WHERE m.id = $1`

	var m model.Message
	if err := pick(r.db, tx).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, tx *sqlx.Tx, carID, userID, otherUserID string) (int64, error) {
	query := `
		UPDATE messages SET read = TRUE
		WHERE car_id = $1 AND receiver_id = $2 AND sender_id = $3 AND read = FALSE
	`
	result, err := pick(r.db, tx).ExecContext(ctx, query, carID, userID, otherUserID)
	if err != nil {
		return 0, fmt.Errorf("mark thread read: %w", err)
	}
	return result.RowsAffected()
}

func (r *messageRepository) Thread(ctx context.Context, tx *sqlx.Tx, carID, userID, otherUserID string) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + messageJoins + `
		WHERE m.car_id = $1
		  AND ((m.sender_id = $2 AND m.receiver_id = $3) OR (m.sender_id = $3 AND m.receiver_id = $2))
		ORDER BY m.created_at ASC, m.id
	`

	messages := []model.Message{}
	if err := pick(r.db, tx).SelectContext(ctx, &messages, query, carID, userID, otherUserID); err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return messages, nil
}

// conversationRow carries the LEFT JOINed listing columns, all NULL once the car is gone.
type conversationRow struct {
	model.Message
	CarRefID  sql.NullString  `db:"car_ref_id"`
	CarTitle  sql.NullString  `db:"car_title"`
	CarImages pq.StringArray  `db:"car_images"`
	CarPrice  sql.NullFloat64 `db:"car_price"`
}

func (row conversationRow) toModel() model.ConversationMessage {
	cm := model.ConversationMessage{Message: row.Message}
	if row.CarRefID.Valid {
		images := row.CarImages
		if images == nil {
			images = pq.StringArray{}
		}
		cm.Car = &model.CarSummary{
			ID:     row.CarRefID.String,
			Title:  row.CarTitle.String,
			Images: images,
			Price:  row.CarPrice.Float64,
		}
	}
	return cm
}

func (r *messageRepository) ListForUser(ctx context.Context, userID string) ([]model.ConversationMessage, error) {
	query := `SELECT ` + messageColumns + `,
			c.id AS car_ref_id, c.title AS car_title, c.images AS car_images, c.price AS car_price
		` + messageJoins + `
		LEFT JOIN cars c ON c.id = m.car_id
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC, m.id DESC
	`

	var rows []conversationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]model.ConversationMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toModel())
	}
	return messages, nil
}
