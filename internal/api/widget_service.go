// Package api exposes the synchronizer to presentation clients over gRPC.
package api

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	chatsyncv1 "github.com/fixitnow/chatsync/gen/chatsync/v1"
	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
)

//go:generate protoc -I ../../proto --go_out=../.. --go_opt=module=github.com/fixitnow/chatsync --go-grpc_out=../.. --go-grpc_opt=module=github.com/fixitnow/chatsync chatsync/v1/widget.proto

// Synchronizer is the part of the synchronizer the Widget service drives.
type Synchronizer interface {
	OpenWidget(ctx context.Context) error
	CloseWidget()
	SelectConversation(ctx context.Context, key chat.Key) ([]chat.Message, error)
	SendMessage(ctx context.Context, receiverID chat.UserID, body string) (chat.Message, error)
	RetryMessage(ctx context.Context, tempID string) (chat.Message, error)
	DiscardMessage(tempID string) (chat.Message, error)
	Snapshot() chatsync.Snapshot
	Search(ctx context.Context, query string) ([]chat.Message, error)
}

// WidgetService implements the Widget gRPC service.
type WidgetService struct {
	chatsyncv1.UnimplementedWidgetServer

	sync   Synchronizer
	bus    *bus.Bus
	logger *zap.Logger
}

// NewWidgetService creates the Widget service.
func NewWidgetService(s Synchronizer, b *bus.Bus, logger *zap.Logger) *WidgetService {
	return &WidgetService{sync: s, bus: b, logger: logger}
}

func (s *WidgetService) OpenWidget(ctx context.Context, _ *chatsyncv1.OpenWidgetRequest) (*chatsyncv1.SnapshotResponse, error) {
	if err := s.sync.OpenWidget(ctx); err != nil {
		return nil, toStatus(err)
	}
	return toSnapshot(s.sync.Snapshot()), nil
}

func (s *WidgetService) CloseWidget(_ context.Context, _ *chatsyncv1.Empty) (*chatsyncv1.Empty, error) {
	s.sync.CloseWidget()
	return &chatsyncv1.Empty{}, nil
}

func (s *WidgetService) SelectConversation(ctx context.Context, req *chatsyncv1.SelectConversationRequest) (*chatsyncv1.MessagesResponse, error) {
	msgs, err := s.sync.SelectConversation(ctx, chat.Key(req.Key))
	if err != nil {
		return nil, toStatus(err)
	}
	return &chatsyncv1.MessagesResponse{Messages: toMessages(msgs)}, nil
}

func (s *WidgetService) SendMessage(ctx context.Context, req *chatsyncv1.SendMessageRequest) (*chatsyncv1.MessageResponse, error) {
	m, err := s.sync.SendMessage(ctx, chat.UserID(req.ReceiverId), req.Body)
	if err != nil {
		return nil, toStatus(err)
	}
	return &chatsyncv1.MessageResponse{Message: toMessage(m)}, nil
}

func (s *WidgetService) RetryMessage(ctx context.Context, req *chatsyncv1.TempIdRequest) (*chatsyncv1.MessageResponse, error) {
	m, err := s.sync.RetryMessage(ctx, req.TempId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &chatsyncv1.MessageResponse{Message: toMessage(m)}, nil
}

func (s *WidgetService) DiscardMessage(_ context.Context, req *chatsyncv1.TempIdRequest) (*chatsyncv1.MessageResponse, error) {
	m, err := s.sync.DiscardMessage(req.TempId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &chatsyncv1.MessageResponse{Message: toMessage(m)}, nil
}

func (s *WidgetService) Snapshot(_ context.Context, _ *chatsyncv1.Empty) (*chatsyncv1.SnapshotResponse, error) {
	return toSnapshot(s.sync.Snapshot()), nil
}

func (s *WidgetService) Search(ctx context.Context, req *chatsyncv1.SearchRequest) (*chatsyncv1.MessagesResponse, error) {
	msgs, err := s.sync.Search(ctx, req.Query)
	if err != nil {
		return nil, toStatus(err)
	}
	return &chatsyncv1.MessagesResponse{Messages: toMessages(msgs)}, nil
}

// Watch streams store events and connection transitions until the client
// goes away. Store events include confirmed and failed sends. A slow watcher
// misses events rather than stalling the synchronizer; Snapshot
// resynchronizes it.
func (s *WidgetService) Watch(_ *chatsyncv1.WatchRequest, stream grpc.ServerStreamingServer[chatsyncv1.Event]) error {
	changes, unsubChanges := s.bus.Subscribe("store.", 256)
	defer unsubChanges()
	conns, unsubConns := s.bus.Subscribe(bus.KindLiveConnection, 16)
	defer unsubConns()

	for {
		var evt bus.Event
		select {
		case evt = <-changes:
		case evt = <-conns:
		case <-stream.Context().Done():
			return nil
		}

		out := &chatsyncv1.Event{
			Id:               uuid.NewString(),
			Kind:             evt.Kind,
			OccurredAtUnixMs: evt.Timestamp.UnixMilli(),
		}
		switch p := evt.Payload.(type) {
		case chatsync.Change:
			out.Change = toChangeEvent(p)
		case chat.Message:
			out.Message = toMessage(p)
		case status.Change:
			out.Connection = toConnectionChange(p)
		default:
			s.logger.Debug("skipping unknown watch payload", zap.String("kind", evt.Kind))
			continue
		}
		if err := stream.Send(out); err != nil {
			return err
		}
	}
}
