package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // sub-negotiation begin
	SE   byte = 240 // sub-negotiation end
	NOP  byte = 241

	OptSuppressGoAhead byte = 3
)

// Conn wraps a TCP connection with Telnet protocol handling. Input has IAC
// sequences filtered out and is read a line at a time. Conn is an
// io.ReadWriter so a session can use it directly as its input and output.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
	color  bool

	// pending holds the unread tail of the last line handed to Read.
	pending []byte
	readErr error

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection. With color false every ANSI sequence
// is stripped from output.
//
// Precondition: raw must be a valid, open network connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration, color bool) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		color:        color,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate asks the client to suppress go-ahead.
//
// Postcondition: Negotiation bytes are written to the connection.
func (c *Conn) Negotiate() error {
	return c.writeRaw([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences and
// control characters other than tab. The trailing \r\n is not returned.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		if b == IAC {
			if err := c.skipIAC(); err != nil {
				return line.String(), err
			}
			continue
		}

		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			break
		}
		if b < 32 && b != '\t' {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}

// skipIAC consumes the rest of a sequence whose IAC byte was already read.
func (c *Conn) skipIAC() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	}
	return nil
}

// Read implements io.Reader over ReadLine, yielding one cleaned line at a
// time terminated by \n. A partial line before an error is returned first
// and the error on the following call.
func (c *Conn) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		if c.readErr != nil {
			err := c.readErr
			c.readErr = nil
			return 0, err
		}
		line, err := c.ReadLine()
		if err != nil {
			if line == "" {
				return 0, err
			}
			c.pending = []byte(line)
			c.readErr = err
		} else {
			c.pending = append([]byte(line), '\n')
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write implements io.Writer. Bare \n becomes \r\n and ANSI sequences are
// stripped when color is off.
//
// Postcondition: On success n is len(p).
func (c *Conn) Write(p []byte) (int, error) {
	text := string(p)
	if !c.color {
		text = StripANSI(text)
	}
	var out bytes.Buffer
	out.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && (i == 0 || text[i-1] != '\r') {
			out.WriteByte('\r')
		}
		out.WriteByte(text[i])
	}
	if err := c.writeRaw(out.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteLine sends text followed by a line break.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	_, err := fmt.Fprintf(c, "%s\n", text)
	return err
}

func (c *Conn) writeRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
