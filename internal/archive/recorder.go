package archive

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/bus"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
)

// Recorder persists store changes published by the synchronizer.
type Recorder struct {
	db     *DB
	bus    *bus.Bus
	logger *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecorder creates a recorder writing to db.
func NewRecorder(db *DB, b *bus.Bus, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, bus: b, logger: logger}
}

// Start subscribes to store changes. Every change is recorded, so the
// subscription is lossless.
func (r *Recorder) Start() {
	ch, unsub := r.bus.SubscribeLossless(bus.KindStoreChanged, 256)
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				change, ok := evt.Payload.(chatsync.Change)
				if !ok {
					continue
				}
				if err := r.Record(ctx, change); err != nil {
					r.logger.Error("failed to archive change", zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop unsubscribes and waits for the recording goroutine.
func (r *Recorder) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// Record writes one change in a single transaction.
func (r *Recorder) Record(ctx context.Context, change chatsync.Change) error {
	if len(change.Conversations) == 0 && len(change.Confirmed) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, conv := range change.Conversations {
		if err := upsertConversation(ctx, tx, change.Owner, conv); err != nil {
			return fmt.Errorf("conversation %s: %w", conv.Key, err)
		}
	}
	for _, m := range change.Confirmed {
		if err := upsertMessage(ctx, tx, change.Owner, m); err != nil {
			return fmt.Errorf("message %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}
