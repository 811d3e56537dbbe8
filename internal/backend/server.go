package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/remote"
	"github.com/fixitnow/chatsync/internal/transport"
)

type ctxKey struct{}

// Server serves the REST API under /api and the live channel at /ws.
type Server struct {
	store    *Store
	hub      *Hub
	logger   *zap.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer wires the routes over store.
func NewServer(store *Store, logger *zap.Logger) *Server {
	s := &Server{
		store:  store,
		hub:    NewHub(logger),
		logger: logger,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Clients are native apps, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)
	api.HandleFunc("/conversations", s.handleConversations).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{key}/messages", s.handleMessages).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{key}/read", s.handleRead).Methods(http.MethodPost)
	api.HandleFunc("/messages", s.handleSend).Methods(http.MethodPost)
	s.router.HandleFunc("/ws", s.handleLive).Methods(http.MethodGet)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub exposes the live connection registry.
func (s *Server) Hub() *Hub { return s.hub }

// Close disconnects every live client.
func (s *Server) Close() { s.hub.CloseAll() }

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.userFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func (s *Server) userFromRequest(r *http.Request) (User, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return User{}, ErrUnknownUser
	}
	return s.store.UserByToken(strings.TrimSpace(token))
}

func currentUser(r *http.Request) User {
	u, _ := r.Context().Value(ctxKey{}).(User)
	return u
}

// conversationKey parses the {key} route variable and checks that the
// caller takes part in it.
func conversationKey(w http.ResponseWriter, r *http.Request) (chat.Key, bool) {
	key, err := chat.ParseKey(mux.Vars(r)["key"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if !key.Has(chat.UserID(currentUser(r).ID)) {
		writeError(w, http.StatusForbidden, "not a participant")
		return "", false
	}
	return key, true
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.store.Conversations(currentUser(r).ID)
	if err != nil {
		s.internalError(w, "list conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	key, ok := conversationKey(w, r)
	if !ok {
		return
	}
	msgs, err := s.store.Messages(key)
	if err != nil {
		s.internalError(w, "list messages", err)
		return
	}
	out := make([]remote.MessageDTO, 0, len(msgs))
	for i := range msgs {
		out = append(out, msgs[i].DTO())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req remote.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	user := currentUser(r)
	msg, created, err := s.store.Send(user.ID, int64(req.ReceiverID), req.Body, req.ClientMsgID)
	if err != nil {
		if chat.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, "send", err)
		return
	}
	if created {
		s.fanOut(&msg, nil)
		writeJSON(w, http.StatusCreated, msg.DTO())
		return
	}
	writeJSON(w, http.StatusOK, msg.DTO())
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	key, ok := conversationKey(w, r)
	if !ok {
		return
	}
	var req remote.ReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.markRead(chat.UserID(currentUser(r).ID), key, req.UpTo); err != nil {
		s.internalError(w, "mark read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLive upgrades an authenticated request and greets it with hello.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	u, err := s.userFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newClient(s.hub, chat.UserID(u.ID), conn)
	s.hub.register(c)
	s.hub.reply(c, transport.Frame{Type: transport.FrameHello, From: c.user})
	s.logger.Info("live client connected", zap.Int64("user_id", u.ID), zap.Int("connections", s.hub.Connections(c.user)))

	go c.writePump()
	go c.readPump(s.handleFrame)
}

func (s *Server) handleFrame(c *client, f transport.Frame) {
	switch f.Type {
	case transport.FramePrivate:
		msg, created, err := s.store.Send(int64(c.user), int64(f.To), f.Body, f.TempID)
		if err != nil {
			s.logger.Debug("rejecting live message", zap.Int64("user_id", int64(c.user)), zap.Error(err))
			s.hub.reply(c, transport.Frame{Type: transport.FrameError, TempID: f.TempID, Error: transport.ErrCodeSendFailed})
			return
		}
		ack := messageFrame(transport.FramePrivateAck, &msg)
		ack.TempID = f.TempID
		s.hub.reply(c, ack)
		if created {
			s.fanOut(&msg, c)
		}
	case transport.FrameRead:
		if !f.Key.Has(c.user) {
			s.hub.reply(c, transport.Frame{Type: transport.FrameError, Error: "not a participant"})
			return
		}
		if err := s.markRead(c.user, f.Key, f.UpTo); err != nil {
			s.logger.Error("mark read", zap.Error(err))
		}
	default:
		s.logger.Debug("ignoring live frame", zap.String("type", string(f.Type)))
	}
}

// fanOut delivers a new message to the receiver and to the sender's other
// connections. The sender's copy carries the client id so another device
// can match its placeholder.
func (s *Server) fanOut(msg *Message, skip *client) {
	f := messageFrame(transport.FramePrivate, msg)
	s.hub.SendTo(chat.UserID(msg.ReceiverID), f, nil)
	if msg.ClientMsgID != nil {
		f.TempID = *msg.ClientMsgID
	}
	s.hub.SendTo(chat.UserID(msg.SenderID), f, skip)
}

func (s *Server) markRead(reader chat.UserID, key chat.Key, upTo int64) error {
	if _, err := s.store.MarkRead(int64(reader), key, upTo); err != nil {
		return err
	}
	receipt := transport.Frame{Type: transport.FrameReadReceipt, Key: key, Reader: reader, UpTo: upTo}
	s.hub.SendTo(reader, receipt, nil)
	s.hub.SendTo(key.Other(reader), receipt, nil)
	return nil
}

func messageFrame(t transport.FrameType, m *Message) transport.Frame {
	return transport.Frame{
		Type: t,
		ID:   m.DTO().ID,
		From: chat.UserID(m.SenderID),
		To:   chat.UserID(m.ReceiverID),
		Body: m.Body,
		TS:   m.SentAt,
		Key:  chat.Key(m.ConvKey),
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, remote.ErrorDTO{Error: msg})
}
