// Package backend is a reference chat backend: the REST endpoints and live
// channel the synchronizer talks to, persisted with gorm on SQLite.
package backend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/remote"
)

// ErrUnknownUser is returned for tokens or user ids nobody owns.
var ErrUnknownUser = errors.New("unknown user")

// User is a backend account. Tokens are issued out of band.
type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Name  string `gorm:"size:128"`
	Token string `gorm:"uniqueIndex;size:128"`
}

// Message is a stored direct message. ClientMsgID is NULL for messages sent
// without one; (SenderID, ClientMsgID) is unique otherwise.
type Message struct {
	ID          uint64  `gorm:"primaryKey"`
	ConvKey     string  `gorm:"index;size:64"`
	SenderID    int64   `gorm:"index;uniqueIndex:idx_sender_client"`
	ReceiverID  int64   `gorm:"index"`
	Body        string  `gorm:"type:text"`
	ClientMsgID *string `gorm:"uniqueIndex:idx_sender_client;size:128"`
	SentAt      int64   `gorm:"index"`
	ReadAt      *int64
}

// DTO converts m to its wire form.
func (m *Message) DTO() remote.MessageDTO {
	dto := remote.MessageDTO{
		ID:         strconv.FormatUint(m.ID, 10),
		SenderID:   chat.UserID(m.SenderID),
		ReceiverID: chat.UserID(m.ReceiverID),
		Text:       m.Body,
		SentAt:     m.SentAt,
		Read:       m.ReadAt != nil,
	}
	if m.ClientMsgID != nil {
		dto.ClientMsgID = *m.ClientMsgID
	}
	return dto
}

// Store persists users and messages.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenStore opens or creates the SQLite database at path and migrates it.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open backend db: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &Message{}); err != nil {
		return nil, fmt.Errorf("migrate backend db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedUsers creates or updates users.
func (s *Store) SeedUsers(users []User) error {
	for _, u := range users {
		if u.ID <= 0 || u.Token == "" {
			return fmt.Errorf("seed user %d: id and token are required", u.ID)
		}
		if err := s.db.Save(&u).Error; err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	return nil
}

// UserByToken authenticates a bearer token.
func (s *Store) UserByToken(token string) (User, error) {
	var u User
	if token == "" {
		return u, ErrUnknownUser
	}
	err := s.db.Where("token = ?", token).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, ErrUnknownUser
	}
	return u, err
}

// User looks a user up by id.
func (s *Store) User(id int64) (User, error) {
	var u User
	err := s.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, ErrUnknownUser
	}
	return u, err
}

// Send stores a message from sender to receiver. A repeated clientMsgID
// returns the message stored the first time and created is false.
func (s *Store) Send(sender, receiver int64, body, clientMsgID string) (msg Message, created bool, err error) {
	if strings.TrimSpace(body) == "" {
		return msg, false, &chat.ValidationError{Field: "body", Reason: "message is empty"}
	}
	if sender == receiver {
		return msg, false, &chat.ValidationError{Field: "receiverId", Reason: "cannot message yourself"}
	}
	if _, err := s.User(receiver); err != nil {
		return msg, false, &chat.ValidationError{Field: "receiverId", Reason: fmt.Sprintf("user %d does not exist", receiver)}
	}

	if clientMsgID != "" {
		if existing, ok, err := s.byClientMsgID(sender, clientMsgID); err != nil || ok {
			return existing, false, err
		}
	}

	msg = Message{
		ConvKey:    string(chat.KeyFor(chat.UserID(sender), chat.UserID(receiver))),
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		SentAt:     s.now().UnixMilli(),
	}
	if clientMsgID != "" {
		msg.ClientMsgID = &clientMsgID
	}
	if err := s.db.Create(&msg).Error; err != nil {
		// Lost a race against a concurrent send of the same id.
		if clientMsgID != "" {
			if existing, ok, lookupErr := s.byClientMsgID(sender, clientMsgID); lookupErr == nil && ok {
				return existing, false, nil
			}
		}
		return Message{}, false, fmt.Errorf("store message: %w", err)
	}
	return msg, true, nil
}

func (s *Store) byClientMsgID(sender int64, clientMsgID string) (Message, bool, error) {
	var m Message
	err := s.db.Where("sender_id = ? AND client_msg_id = ?", sender, clientMsgID).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Message{}, false, nil
	case err != nil:
		return Message{}, false, err
	}
	return m, true, nil
}

// Messages returns the history of key, oldest first.
func (s *Store) Messages(key chat.Key) ([]Message, error) {
	var msgs []Message
	err := s.db.Where("conv_key = ?", string(key)).Order("sent_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

// Conversations summarizes every conversation user takes part in, most
// recent first.
func (s *Store) Conversations(user int64) ([]remote.ConversationDTO, error) {
	var msgs []Message
	err := s.db.Where("sender_id = ? OR receiver_id = ?", user, user).
		Order("sent_at ASC, id ASC").Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*remote.ConversationDTO)
	var order []string
	for _, m := range msgs {
		dto, ok := byKey[m.ConvKey]
		if !ok {
			other := m.ReceiverID
			if other == user {
				other = m.SenderID
			}
			dto = &remote.ConversationDTO{Key: m.ConvKey, OtherUserID: chat.UserID(other)}
			byKey[m.ConvKey] = dto
			order = append(order, m.ConvKey)
		}
		dto.LastMessageText = m.Body
		dto.LastMessageAt = m.SentAt
		if m.ReceiverID == user && m.ReadAt == nil {
			dto.UnreadCount++
		}
	}

	out := make([]remote.ConversationDTO, 0, len(order))
	for _, k := range order {
		dto := byKey[k]
		if u, err := s.User(int64(dto.OtherUserID)); err == nil {
			dto.OtherUserName = u.Name
		}
		out = append(out, *dto)
	}
	sortConversations(out)
	return out, nil
}

// MarkRead marks messages user received in key up to upTo (Unix ms) as read.
// Returns how many messages changed.
func (s *Store) MarkRead(user int64, key chat.Key, upTo int64) (int64, error) {
	now := s.now().UnixMilli()
	res := s.db.Model(&Message{}).
		Where("conv_key = ? AND receiver_id = ? AND sent_at <= ? AND read_at IS NULL", string(key), user, upTo).
		Update("read_at", now)
	return res.RowsAffected, res.Error
}
