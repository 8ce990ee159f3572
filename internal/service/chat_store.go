package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/metrics"
)

var (
	ErrChatStoreClosed       = errors.New("chat store closed")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrEmptyMessage          = errors.New("message text is empty")
	ErrMessageTooLong        = errors.New("message text too long")
	ErrSelfConversation      = errors.New("cannot open a conversation with yourself")
	ErrInvalidConversationID = errors.New("invalid conversation participant")
)

const (
	maxChatMessageLength   = 2000
	defaultSubscriberQueue = 16
)

type ChatEventType string

const (
	ChatEventMessage      ChatEventType = "message"
	ChatEventRead         ChatEventType = "read"
	ChatEventConversation ChatEventType = "conversation"
)

// ChatEvent es la notificación que reciben los suscriptores de un usuario.
type ChatEvent struct {
	Type           ChatEventType       `json:"type"`
	ConversationID string              `json:"conversation_id"`
	Message        *domain.ChatMessage `json:"message,omitempty"`
	UnreadCount    int                 `json:"unread_count"`
	TotalUnread    int                 `json:"total_unread"`
	ParticipantID  string              `json:"participant_id"`
}

// ChatStore es el almacen de conversaciones en memoria con suscriptores por usuario.
// Se crea una vez en main y se cierra explicitamente al apagar.
type ChatStore struct {
	logger   *zap.Logger
	snapshot ChatSnapshotStore
	now      func() time.Time

	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	subscribers   map[string]map[uint64]chan ChatEvent
	nextSubID     uint64
	closed        bool
}

func NewChatStore(logger *zap.Logger, snapshot ChatSnapshotStore) *ChatStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatStore{
		logger:        logger,
		snapshot:      snapshot,
		now:           func() time.Time { return time.Now().UTC() },
		conversations: make(map[string]*domain.Conversation),
		subscribers:   make(map[string]map[uint64]chan ChatEvent),
	}
}

// Restore carga las conversaciones guardadas. Se llama antes de servir trafico.
func (s *ChatStore) Restore() error {
	if s.snapshot == nil {
		return nil
	}
	convs, err := s.snapshot.LoadAll()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range convs {
		c := convs[i]
		if c.Unread == nil {
			c.Unread = make(map[string]int)
		}
		s.conversations[c.ID] = &c
	}
	s.logger.Info("chat store restored", zap.Int("conversations", len(convs)))
	return nil
}

// EnsureConversation crea la conversación entre dos usuarios si no existe.
func (s *ChatStore) EnsureConversation(a, b string, convType domain.ConversationType) (domain.Conversation, error) {
	if err := validateParticipants(a, b); err != nil {
		return domain.Conversation{}, err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Conversation{}, ErrChatStoreClosed
	}
	conv, created := s.ensureLocked(a, b, convType)
	snapshot := cloneConversation(conv)
	if created {
		s.publishConversationLocked(conv)
	}
	s.mu.Unlock()

	if created {
		s.persist(snapshot)
	}
	return snapshot, nil
}

// AddMessage añade un mensaje del remitente e incrementa los no leidos del destinatario.
func (s *ChatStore) AddMessage(senderID, recipientID, text string, convType domain.ConversationType) (domain.ChatMessage, error) {
	if err := validateParticipants(senderID, recipientID); err != nil {
		return domain.ChatMessage{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}
	if len([]rune(text)) > maxChatMessageLength {
		return domain.ChatMessage{}, ErrMessageTooLong
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ChatMessage{}, ErrChatStoreClosed
	}
	conv, created := s.ensureLocked(senderID, recipientID, convType)
	if created {
		s.publishConversationLocked(conv)
	}
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: s.now(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.Unread[recipientID]++

	for _, uid := range conv.Participants {
		m := msg
		s.publishLocked(uid, ChatEvent{
			Type:           ChatEventMessage,
			ConversationID: conv.ID,
			Message:        &m,
			ParticipantID:  conv.Other(uid),
			UnreadCount:    conv.Unread[uid],
			TotalUnread:    s.totalUnreadLocked(uid),
		})
	}
	snapshot := cloneConversation(conv)
	s.mu.Unlock()

	s.persist(snapshot)
	return msg, nil
}

// MarkAsRead pone a cero los no leidos del usuario en la conversación con otherID.
func (s *ChatStore) MarkAsRead(userID, otherID string) error {
	if err := validateParticipants(userID, otherID); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrChatStoreClosed
	}
	conv, ok := s.conversations[domain.ConversationID(userID, otherID)]
	if !ok {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	changed := conv.Unread[userID] != 0
	conv.Unread[userID] = 0
	s.publishLocked(userID, ChatEvent{
		Type:           ChatEventRead,
		ConversationID: conv.ID,
		ParticipantID:  otherID,
		TotalUnread:    s.totalUnreadLocked(userID),
	})
	snapshot := cloneConversation(conv)
	s.mu.Unlock()

	if changed {
		s.persist(snapshot)
	}
	return nil
}

// Conversation devuelve una copia de la conversación entre dos usuarios.
func (s *ChatStore) Conversation(userID, otherID string) (domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[domain.ConversationID(userID, otherID)]
	if !ok {
		return domain.Conversation{}, ErrConversationNotFound
	}
	return cloneConversation(conv), nil
}

// Summaries lista las conversaciones del usuario, la más reciente primero.
func (s *ChatStore) Summaries(userID string) []domain.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ConversationSummary, 0)
	for _, conv := range s.conversations {
		if !conv.Includes(userID) {
			continue
		}
		summary := domain.ConversationSummary{
			ID:            conv.ID,
			Type:          conv.Type,
			ParticipantID: conv.Other(userID),
			UnreadCount:   conv.Unread[userID],
		}
		if n := len(conv.Messages); n > 0 {
			last := conv.Messages[n-1]
			summary.LastMessage = &last
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := lastActivity(out[i]), lastActivity(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TotalUnread suma los no leidos del usuario en todas sus conversaciones.
func (s *ChatStore) TotalUnread(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalUnreadLocked(userID)
}

// ActiveConversationCount cuenta las conversaciones del usuario con al menos un mensaje.
func (s *ChatStore) ActiveConversationCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, conv := range s.conversations {
		if conv.Includes(userID) && len(conv.Messages) > 0 {
			n++
		}
	}
	return n
}

// Subscribe registra un suscriptor para los eventos del usuario. La función devuelta
// cancela la suscripción y cierra el canal; es segura de llamar varias veces.
// Si el suscriptor no consume a tiempo los eventos se descartan.
func (s *ChatStore) Subscribe(userID string) (<-chan ChatEvent, func()) {
	ch := make(chan ChatEvent, defaultSubscriberQueue)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[uint64]chan ChatEvent)
	}
	s.subscribers[userID][id] = ch
	s.mu.Unlock()
	metrics.ChatSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs, ok := s.subscribers[userID]
			if !ok {
				return
			}
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
				metrics.ChatSubscribers.Dec()
			}
			if len(subs) == 0 {
				delete(s.subscribers, userID)
			}
		})
	}
}

// Close cierra todos los suscriptores. Las operaciones posteriores devuelven ErrChatStoreClosed.
func (s *ChatStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for uid, subs := range s.subscribers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
			metrics.ChatSubscribers.Dec()
		}
		delete(s.subscribers, uid)
	}
}

func (s *ChatStore) ensureLocked(a, b string, convType domain.ConversationType) (*domain.Conversation, bool) {
	id := domain.ConversationID(a, b)
	if conv, ok := s.conversations[id]; ok {
		return conv, false
	}
	if convType == "" {
		convType = domain.ConversationRoommate
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	conv := &domain.Conversation{
		ID:           id,
		Type:         convType,
		Participants: [2]string{first, second},
		Messages:     []domain.ChatMessage{},
		Unread:       map[string]int{first: 0, second: 0},
	}
	s.conversations[id] = conv
	return conv, true
}

func (s *ChatStore) publishConversationLocked(conv *domain.Conversation) {
	for _, uid := range conv.Participants {
		s.publishLocked(uid, ChatEvent{
			Type:           ChatEventConversation,
			ConversationID: conv.ID,
			ParticipantID:  conv.Other(uid),
			TotalUnread:    s.totalUnreadLocked(uid),
		})
	}
}

func (s *ChatStore) publishLocked(userID string, ev ChatEvent) {
	for _, ch := range s.subscribers[userID] {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("chat subscriber queue full, dropping event",
				zap.String("user_id", userID),
				zap.String("conversation_id", ev.ConversationID),
			)
		}
	}
}

func (s *ChatStore) totalUnreadLocked(userID string) int {
	total := 0
	for _, conv := range s.conversations {
		if conv.Includes(userID) {
			total += conv.Unread[userID]
		}
	}
	return total
}

func (s *ChatStore) persist(conv domain.Conversation) {
	if s.snapshot == nil {
		return
	}
	if err := s.snapshot.Save(conv); err != nil {
		s.logger.Warn("chat snapshot save failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
	}
}

func validateParticipants(a, b string) error {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return ErrInvalidConversationID
	}
	if a == b {
		return ErrSelfConversation
	}
	return nil
}

func cloneConversation(c *domain.Conversation) domain.Conversation {
	out := *c
	out.Messages = make([]domain.ChatMessage, len(c.Messages))
	copy(out.Messages, c.Messages)
	out.Unread = make(map[string]int, len(c.Unread))
	for k, v := range c.Unread {
		out.Unread[k] = v
	}
	return out
}

func lastActivity(s domain.ConversationSummary) time.Time {
	if s.LastMessage == nil {
		return time.Time{}
	}
	return s.LastMessage.Timestamp
}
