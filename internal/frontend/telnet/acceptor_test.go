package telnet

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/spellbook/internal/config"
)

// echoHandler is a test SessionHandler that echoes lines back to the client.
type echoHandler struct {
	sessionCount atomic.Int32
}

func (h *echoHandler) HandleSession(_ context.Context, conn *Conn) error {
	h.sessionCount.Add(1)
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if line == "quit" {
			return conn.WriteLine("bye")
		}
		_ = conn.WriteLine("echo: " + line)
	}
}

func testTelnetConfig() config.TelnetConfig {
	return config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// startAcceptor runs acc and returns a channel carrying Start's result.
func startAcceptor(t *testing.T, acc *Acceptor) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- acc.Start(context.Background()) }()
	select {
	case <-acc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor did not start in time")
	}
	return errCh
}

// client is the player side of a Telnet connection.
type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *client) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

// expect reads lines until one contains want.
func (c *client) expect(want string) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var seen []string
	for {
		line, err := c.r.ReadString('\n')
		seen = append(seen, line)
		if strings.Contains(line, want) {
			return line
		}
		if err != nil {
			c.t.Fatalf("waiting for %q: %v; saw %q", want, err, seen)
		}
	}
}

func TestAcceptorStartAndStop(t *testing.T) {
	handler := &echoHandler{}
	acc := NewAcceptor(testTelnetConfig(), handler, zaptest.NewLogger(t))
	errCh := startAcceptor(t, acc)
	assert.True(t, acc.IsRunning())

	c := dial(t, acc.Addr())
	c.send("hello")
	c.expect("echo: hello")
	c.send("quit")
	c.expect("bye")

	acc.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor did not stop in time")
	}
	assert.False(t, acc.IsRunning())
	assert.Equal(t, int32(1), handler.sessionCount.Load())
}

func TestAcceptorMultipleClients(t *testing.T) {
	handler := &echoHandler{}
	acc := NewAcceptor(testTelnetConfig(), handler, zaptest.NewLogger(t))
	errCh := startAcceptor(t, acc)

	const numClients = 3
	clients := make([]*client, numClients)
	for i := range clients {
		clients[i] = dial(t, acc.Addr())
		clients[i].send("ping")
		clients[i].expect("echo: ping")
	}
	for _, c := range clients {
		c.send("quit")
		c.expect("bye")
	}

	acc.Stop()
	require.NoError(t, <-errCh)
	assert.Equal(t, int32(numClients), handler.sessionCount.Load())
}

func TestAcceptorStopClosesOpenConnections(t *testing.T) {
	acc := NewAcceptor(testTelnetConfig(), &echoHandler{}, zaptest.NewLogger(t))
	errCh := startAcceptor(t, acc)

	c := dial(t, acc.Addr())
	c.send("hello")
	c.expect("echo: hello")

	acc.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return while a client was connected")
	}
}

func TestAcceptorStopsOnContextCancel(t *testing.T) {
	acc := NewAcceptor(testTelnetConfig(), &echoHandler{}, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- acc.Start(ctx) }()
	<-acc.Ready()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor ignored context cancellation")
	}
	acc.Stop()
}

func TestAcceptorListenError(t *testing.T) {
	cfg := testTelnetConfig()
	cfg.Host = "256.0.0.1"
	acc := NewAcceptor(cfg, &echoHandler{}, zaptest.NewLogger(t))
	assert.ErrorContains(t, acc.Start(context.Background()), "listening on 256.0.0.1:0")
}
