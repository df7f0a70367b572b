// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

//go:build nats

package imagetask

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/cardexhq/cardex/internal/config"
	"github.com/cardexhq/cardex/internal/metrics"
)

// NATSDispatcher publishes image tasks to NATS JetStream via Watermill.
// The print hash doubles as Nats-Msg-Id, so JetStream deduplicates replays
// of the same print at the broker.
type NATSDispatcher struct {
	publisher message.Publisher
	logger    watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewNATSDispatcher connects to NATS and builds the JetStream publisher.
func NewNATSDispatcher(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*NATSDispatcher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(10),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &NATSDispatcher{publisher: pub, logger: logger}, nil
}

// Dispatch publishes one image fetch task.
func (d *NATSDispatcher) Dispatch(ctx context.Context, task *Task) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return fmt.Errorf("image dispatcher is closed")
	}
	d.mu.RUnlock()

	data, err := task.Encode()
	if err != nil {
		return err
	}

	msg := message.NewMessage(task.PrintHash, data)
	msg.Metadata.Set(natsgo.MsgIdHdr, task.PrintHash)
	msg.Metadata.Set("game_code", task.GameCode)

	if err := d.publisher.Publish(TopicImageFetch, msg); err != nil {
		return fmt.Errorf("publish image task for print %s: %w", task.PrintHash, err)
	}
	metrics.RecordImageDispatch(task.GameCode, "dispatched")
	return nil
}

// Close shuts down the underlying publisher.
func (d *NATSDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.publisher.Close()
}
