package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/config"
)

// SessionHandler processes a connected Telnet session.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for Telnet connections on a TCP port and dispatches each
// connection to a SessionHandler. It satisfies the server lifecycle's
// Service interface.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	listener net.Listener
	ready    chan struct{}
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool
	stopped  bool
}

// NewAcceptor creates a Telnet acceptor.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to be started with Start.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger.Named("telnet"),
		ready:   make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Start listens and accepts connections until Stop is called or ctx is done.
//
// Postcondition: The listener is closed and every connection handler has
// returned when Start returns.
func (a *Acceptor) Start(ctx context.Context) error {
	start := time.Now()

	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	a.listener = listener
	a.running = true
	a.mu.Unlock()
	close(a.ready)

	a.logger.Info("table server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	go func() {
		select {
		case <-ctx.Done():
			a.Stop()
		case <-a.quit:
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-a.quit:
				a.wg.Wait()
				return nil
			default:
				a.logger.Error("accepting connection", zap.Error(err))
				continue
			}
		}
		a.wg.Add(1)
		go a.handleConn(conn)
	}
}

func (a *Acceptor) handleConn(raw net.Conn) {
	defer a.wg.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	a.logger.Info("client connected", zap.String("remote_addr", addr))

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout, a.cfg.Color)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		a.logger.Error("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Closing the connection unblocks a session waiting on input.
	go func() {
		select {
		case <-a.quit:
			cancel()
			_ = conn.Close()
		case <-ctx.Done():
		}
	}()

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		a.logger.Debug("session ended",
			zap.String("remote_addr", addr),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	a.logger.Info("session ended cleanly",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop closes the listener and every open connection. It is safe to call
// more than once and before Start.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true
	a.running = false
	close(a.quit)
	if a.listener != nil {
		_ = a.listener.Close()
	}
	a.logger.Info("table server stopped")
}

// Ready is closed once the listener is bound.
func (a *Acceptor) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the actual listening address, or empty string if not yet listening.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning returns whether the acceptor is currently accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
