// Package socketio implements channel.Channel as a socket.io client over a websocket.
package socketio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openweb3-io/cryptocapital/channel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("socket.io channel closed")

type Channel struct {
	url    string
	opts   Options
	dialer *websocket.Dialer
	log    *logrus.Entry

	handlersMu sync.RWMutex
	handlers   map[string][]channel.Handler

	// mu guards conn, connected and pending
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	pending   [][]byte

	// writeMu serializes writers; gorilla allows one concurrent writer
	writeMu sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	openOnce  sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ channel.Channel = &Channel{}

// New prepares a channel to endpoint; nothing is dialed until Open.
func New(endpoint string, options ...Option) (*Channel, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}
	if opts.EngineIOVersion != 3 && opts.EngineIOVersion != 4 {
		return nil, fmt.Errorf("unsupported engine.io version %d", opts.EngineIOVersion)
	}

	wsURL, err := websocketURL(endpoint, opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Channel{
		url:  wsURL,
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		log:      opts.Logger.WithField("endpoint", endpoint),
		handlers: make(map[string][]channel.Handler),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func websocketURL(endpoint string, opts Options) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	u.Path = opts.Path
	q := u.Query()
	q.Set("EIO", strconv.Itoa(opts.EngineIOVersion))
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// URL is the websocket URL the channel dials.
func (c *Channel) URL() string {
	return c.url
}

func (c *Channel) On(event string, h channel.Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

// Open starts the connect loop in the background and returns immediately.
func (c *Channel) Open() error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	c.openOnce.Do(func() {
		c.wg.Add(1)
		go c.run()
	})
	return nil
}

// Emit sends event with payload as a string argument. While disconnected the frame is
// queued and flushed in order on the next connect.
func (c *Channel) Emit(event string, payload string) error {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.connected {
		if len(c.pending) >= c.opts.SendQueue {
			c.mu.Unlock()
			return errors.Errorf("send queue full (%d frames)", c.opts.SendQueue)
		}
		c.pending = append(c.pending, frame)
		c.mu.Unlock()
		c.log.WithField("event", event).Debug("queued frame until connected")
		return nil
	}
	conn := c.conn
	c.mu.Unlock()

	return c.write(conn, frame)
}

// Close stops reconnecting, closes the connection and waits for the delivery goroutine.
// It must not be called from a handler.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			_ = c.write(conn, []byte{engineMessage, packetDisconnect})
			_ = conn.Close()
		}
		c.wg.Wait()
	})
	return nil
}

func (c *Channel) run() {
	defer c.wg.Done()

	backoff := c.opts.ReconnectInitial
	for c.ctx.Err() == nil {
		conn, err := c.dial()
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.log.WithError(err).WithField("retry_in", backoff).Warn("socket.io dial failed")
			c.dispatch(channel.EventError, errorPayload(err))
			if !c.sleep(backoff) {
				return
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		backoff = c.opts.ReconnectInitial
		err = c.serve(conn)
		c.detach(conn)
		if c.ctx.Err() != nil {
			return
		}
		c.log.WithError(err).Warn("socket.io connection lost")
		c.dispatch(channel.EventError, errorPayload(errors.Wrap(err, "connection lost")))
		if !c.sleep(backoff) {
			return
		}
	}
}

func (c *Channel) dial() (*websocket.Conn, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.HandshakeTimeout)
	defer cancel()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.opts.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", c.url)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		_ = conn.Close()
		return nil, ErrClosed
	}
	c.conn = conn
	return conn, nil
}

func (c *Channel) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// serve runs the engine.io session on conn until it fails.
func (c *Channel) serve(conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(c.opts.HandshakeTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return errors.Wrap(err, "read open packet")
	}
	open, err := parseOpen(string(data))
	if err != nil {
		return err
	}
	interval := millis(open.PingInterval, defaultPingInterval)
	timeout := millis(open.PingTimeout, defaultPingTimeout)
	c.log.WithFields(logrus.Fields{
		"sid":           open.Sid,
		"ping_interval": interval,
	}).Debug("engine.io session opened")

	stop := make(chan struct{})
	var pinger sync.WaitGroup
	defer func() {
		close(stop)
		pinger.Wait()
	}()

	if c.opts.EngineIOVersion >= 4 {
		// v4 clients join the default namespace explicitly
		if err := c.write(conn, []byte{engineMessage, packetConnect}); err != nil {
			return err
		}
	} else {
		// v3 clients drive the heartbeat
		pinger.Add(1)
		go func() {
			defer pinger.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					if err := c.write(conn, []byte{enginePing}); err != nil {
						return
					}
				}
			}
		}()
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(interval + timeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "read")
		}
		if err := c.handleFrame(conn, string(data)); err != nil {
			return err
		}
	}
}

func (c *Channel) handleFrame(conn *websocket.Conn, frame string) error {
	if frame == "" {
		return nil
	}
	switch frame[0] {
	case enginePing:
		return c.write(conn, append([]byte{enginePong}, frame[1:]...))
	case enginePong, engineNoop:
		return nil
	case engineClose:
		return errors.New("server closed the session")
	case engineMessage:
	default:
		c.log.WithField("frame", truncate(frame)).Debug("ignoring engine.io packet")
		return nil
	}

	p, err := decodeMessage(frame[1:])
	if err != nil {
		c.log.WithError(err).WithField("frame", truncate(frame)).Warn("dropping malformed socket.io packet")
		return nil
	}
	switch p.kind {
	case packetConnect:
		if err := c.markConnected(conn); err != nil {
			return err
		}
		c.dispatch(channel.EventConnect, "")
	case packetDisconnect:
		return errors.New("server disconnected the namespace")
	case packetEvent, packetBinaryEvent:
		c.dispatch(p.event, p.payload)
	case packetConnectError:
		payload := p.payload
		if !json.Valid([]byte(payload)) {
			payload = errorPayload(fmt.Errorf("connect error: %s", payload))
		}
		c.dispatch(channel.EventError, payload)
	default:
		c.log.WithField("frame", truncate(frame)).Debug("ignoring socket.io packet")
	}
	return nil
}

// markConnected flushes queued frames ahead of any Emit that observes the connected state.
func (c *Channel) markConnected(conn *websocket.Conn) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.connected = true
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, frame := range pending {
		if err := c.writeLocked(conn, frame); err != nil {
			return err
		}
	}
	if len(pending) > 0 {
		c.log.WithField("frames", len(pending)).Debug("flushed queued frames")
	}
	return nil
}

func (c *Channel) write(conn *websocket.Conn, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writeLocked(conn, frame)
}

func (c *Channel) writeLocked(conn *websocket.Conn, frame []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

func (c *Channel) dispatch(event string, payload string) {
	c.handlersMu.RLock()
	handlers := append([]channel.Handler(nil), c.handlers[event]...)
	c.handlersMu.RUnlock()

	if len(handlers) == 0 {
		c.log.WithField("event", event).Debug("no handler for event")
	}
	for _, h := range handlers {
		h(payload)
	}
}

func (c *Channel) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Channel) nextBackoff(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * c.opts.BackoffMultiple)
	if next > c.opts.ReconnectMax {
		next = c.opts.ReconnectMax
	}
	return next
}

func millis(ms int64, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
