package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// Handler answers one request. The returned bytes are sent as the reply.
type Handler func(ctx context.Context, operation string, payload []byte) []byte

type Options struct {
	Name                 string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	HandlerTimeout       time.Duration
	Logger               *slog.Logger
}

// Conn is a NATS connection bound to a subject prefix. Operations map to
// subjects "<prefix>.<operation>".
type Conn struct {
	conn           *nats.Conn
	prefix         string
	handlerTimeout time.Duration
	logger         *slog.Logger
}

func Connect(url, prefix string, options Options) (*Conn, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	handlerTimeout := options.HandlerTimeout
	if handlerTimeout <= 0 {
		handlerTimeout = 2 * time.Minute
	}
	name := options.Name
	if name == "" {
		name = "filenet-dms-connector"
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Conn{
		conn:           conn,
		prefix:         strings.TrimSuffix(prefix, "."),
		handlerTimeout: handlerTimeout,
		logger:         logger,
	}, nil
}

func (c *Conn) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Conn) Subject(operation string) string {
	return subject(c.prefix, operation)
}

func subject(prefix, operation string) string {
	return prefix + "." + operation
}

// Serve queue-subscribes one subject per operation and answers requests
// until ctx is done, then drains the subscriptions.
func (c *Conn) Serve(ctx context.Context, queueGroup string, operations []string, handler Handler) error {
	subs := make([]*nats.Subscription, 0, len(operations))
	for _, operation := range operations {
		sub, err := c.conn.QueueSubscribe(c.Subject(operation), queueGroup, c.respond(ctx, operation, handler))
		if err != nil {
			return fmt.Errorf("nats subscribe %s: %w", operation, err)
		}
		subs = append(subs, sub)
	}

	if err := c.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	c.logger.Info("nats_serving", "prefix", c.prefix, "queue_group", queueGroup, "operations", operations)

	<-ctx.Done()
	for _, sub := range subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("nats drain subscription: %w", err)
		}
	}
	if err := c.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func (c *Conn) respond(ctx context.Context, operation string, handler Handler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		if msg.Reply == "" {
			c.logger.Warn("nats_request_without_reply", "subject", msg.Subject)
			return
		}

		handlerCtx, cancel := context.WithTimeout(ctx, c.handlerTimeout)
		defer cancel()
		reply := handler(handlerCtx, operation, msg.Data)
		if err := msg.Respond(reply); err != nil {
			c.logger.Error("nats_respond_failed", "subject", msg.Subject, "error", err)
		}
	}
}

// Request sends payload to the operation subject and waits for the reply.
func (c *Conn) Request(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	msg, err := c.conn.RequestWithContext(ctx, c.Subject(operation), payload)
	if err != nil {
		return nil, wrapTemporaryIfNeeded(fmt.Errorf("nats request %s: %w", operation, err))
	}
	return msg.Data, nil
}
