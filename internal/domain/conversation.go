package domain

import "time"

type ConversationType string

const (
	ConversationRoommate ConversationType = "roommate"
	ConversationLandlord ConversationType = "landlord"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation es el hilo entre dos usuarios; Unread cuenta mensajes no leidos por usuario.
type Conversation struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Participants [2]string        `json:"participants"`
	Messages     []ChatMessage    `json:"messages"`
	Unread       map[string]int   `json:"unread"`
}

// ConversationSummary es la vista de una conversación desde un usuario concreto.
type ConversationSummary struct {
	ID            string           `json:"id"`
	Type          ConversationType `json:"type"`
	ParticipantID string           `json:"participant_id"`
	LastMessage   *ChatMessage     `json:"last_message,omitempty"`
	UnreadCount   int              `json:"unread_count"`
}

// Other devuelve el otro participante.
func (c Conversation) Other(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Includes indica si el usuario participa en la conversación.
func (c Conversation) Includes(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// ConversationID genera la clave estable de un par de usuarios sin importar el orden.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
