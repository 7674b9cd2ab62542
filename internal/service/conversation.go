package service

import "carmarket/internal/model"

type conversationKey struct {
	carID       string
	otherUserID string
}

// GroupConversations reduces userID's messages, ordered newest first, to one
// summary per (car, counterpart). Summaries keep the order of their newest message.
func GroupConversations(userID string, messages []model.ConversationMessage) []model.ConversationSummary {
	summaries := []model.ConversationSummary{}
	index := make(map[conversationKey]int)

	for _, m := range messages {
		other, otherUser := m.ReceiverID, m.Receiver
		if m.ReceiverID == userID {
			other, otherUser = m.SenderID, m.Sender
		}
		key := conversationKey{carID: m.CarID, otherUserID: other}

		i, seen := index[key]
		if !seen {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, model.ConversationSummary{
				CarID:       m.CarID,
				OtherUserID: other,
				OtherUser:   otherUser,
				Car:         m.Car,
				LastMessage: m.Message,
			})
		}

		if !m.Read && m.ReceiverID == userID {
			summaries[i].UnreadCount++
		}
	}

	return summaries
}
