// Package remote is the REST client for the conversation endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/session"
)

// Client calls the backend REST API on behalf of the signed-in user.
type Client struct {
	baseURL string
	ids     session.Provider
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for baseURL. hc may be nil.
func NewClient(baseURL string, ids session.Provider, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ids:     ids,
		http:    hc,
		log:     log,
	}
}

// ListConversations fetches every conversation of the signed-in user.
func (c *Client) ListConversations(ctx context.Context) ([]chat.Summary, error) {
	var dtos []ConversationDTO
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]chat.Summary, len(dtos))
	for i, d := range dtos {
		out[i] = d.Summary()
	}
	return out, nil
}

// GetMessages fetches the full history of one conversation.
func (c *Client) GetMessages(ctx context.Context, key chat.Key) (chat.History, error) {
	id, err := c.ids.Identity()
	if err != nil {
		return chat.History{}, err
	}
	var dtos []MessageDTO
	path := "/api/conversations/" + url.PathEscape(string(key)) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return chat.History{}, err
	}
	h := chat.History{Messages: make([]chat.Message, len(dtos))}
	for i, d := range dtos {
		h.Messages[i] = d.Message(id.UserID)
		if d.Read && d.ReceiverID == id.UserID && h.Messages[i].SentAt.After(h.ReadUpTo) {
			h.ReadUpTo = h.Messages[i].SentAt
		}
	}
	return h, nil
}

// SendMessage stores a message. clientMsgID makes retries idempotent: the
// backend answers a repeated id with the message it already stored.
func (c *Client) SendMessage(ctx context.Context, receiverID chat.UserID, body, clientMsgID string) (chat.Message, error) {
	id, err := c.ids.Identity()
	if err != nil {
		return chat.Message{}, err
	}
	var dto MessageDTO
	req := SendRequest{ReceiverID: receiverID, Body: body, ClientMsgID: clientMsgID}
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &dto); err != nil {
		return chat.Message{}, err
	}
	return dto.Message(id.UserID), nil
}

// MarkRead acknowledges reading key up to upTo.
func (c *Client) MarkRead(ctx context.Context, key chat.Key, upTo time.Time) error {
	path := "/api/conversations/" + url.PathEscape(string(key)) + "/read"
	return c.do(ctx, http.MethodPost, path, ReadRequest{UpTo: upTo.UnixMilli()}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path
	id, err := c.ids.Identity()
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+id.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &chat.TransientNetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := classify(op, resp)
		c.log.Debug("request failed", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Error(err))
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &chat.TransientNetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// classify maps an error response onto the chat error taxonomy: rejected
// credentials are fatal, rate limits and server errors are worth retrying.
func classify(op string, resp *http.Response) error {
	var dto ErrorDTO
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&dto)
	msg := dto.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &chat.AuthError{Reason: fmt.Sprintf("%s: %s", op, msg)}
	case resp.StatusCode == http.StatusConflict:
		return &chat.ConflictError{ID: dto.ID}
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return &chat.TransientNetworkError{Op: op, Err: errors.New(msg)}
	default:
		return fmt.Errorf("%s: %s", op, msg)
	}
}
