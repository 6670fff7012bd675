package presenter

import (
	"context"
	"errors"
	"net"
)

// ErrNotConnected is returned by SendFrame when no outbound stream is
// established, per spec.md §4.4's "Presenter not connected" error category.
var ErrNotConnected = errors.New("presenter: not connected")

// Client is a simple stateful client for the pixel-forwarding channel: an
// optional outbound stream, no retry logic (retry is the caller's
// concern).
type Client struct {
	addr string
	conn net.Conn
}

// NewClient returns a Client targeting addr; it does not dial until
// Connect is called.
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Connect establishes the outbound stream to the presenter.
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// Connected reports whether an outbound stream is currently established.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// SendFrame encodes and writes frame to the presenter. It returns
// ErrNotConnected if Connect has not succeeded (or Disconnect has since
// been called).
func (c *Client) SendFrame(frame Frame) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	_, err := c.conn.Write(frame.Encode())
	return err
}

// Disconnect drops the outbound stream, if any.
func (c *Client) Disconnect() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
