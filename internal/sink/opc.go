package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"sync"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	DefaultServer     = "localhost:7890"
	DefaultMinBackoff = 500 * time.Millisecond
	DefaultMaxBackoff = 10 * time.Second
	dialTimeout       = 2 * time.Second
	writeTimeout      = time.Second

	cmdSetPixels = 0
	headerSize   = 4
	// maxPixels is the largest frame a 16-bit OPC length can describe.
	maxPixels = math.MaxUint16 / 3
)

// OPCOptions configure an OPC client.
type OPCOptions struct {
	Server     string
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Clock      lumen.Clock
	Logger     *slog.Logger
	// Dial defaults to a TCP dial with a short timeout.
	Dial func(addr string) (net.Conn, error)
}

// OPC is an Open Pixel Control client. Frames are written as
// [channel, 0, len_hi, len_lo, r, g, b, ...]. When the server is unreachable
// frames are dropped and reconnects are attempted with doubling backoff.
// Dials run in the background; until one succeeds PutPixels returns
// ErrDisconnected without blocking.
type OPC struct {
	mu     sync.Mutex
	opts   OPCOptions
	conn   net.Conn
	buf    []byte
	closed bool

	backoff   time.Duration
	nextDial  time.Time
	connected bool
	dialing   bool
	dropped   int
	everUp    bool
}

func NewOPC(opts OPCOptions) *OPC {
	if opts.Server == "" {
		opts.Server = DefaultServer
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = DefaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = max(DefaultMaxBackoff, opts.MinBackoff)
	}
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Dial == nil {
		opts.Dial = func(addr string) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, dialTimeout)
		}
	}
	opts.Logger = opts.Logger.With("component", "sink", "server", opts.Server)
	return &OPC{opts: opts}
}

func (o *OPC) PutPixels(channel int, pixels []lumen.Color) error {
	if channel < 0 || channel > 255 {
		return fmt.Errorf("sink: channel %d out of range", channel)
	}
	if len(pixels) > maxPixels {
		return fmt.Errorf("sink: %d pixels exceed the OPC frame limit", len(pixels))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if err := o.ensureConn(); err != nil {
		o.dropped++
		return err
	}

	o.buf = encode(o.buf[:0], byte(channel), pixels)
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := o.conn.Write(o.buf); err != nil {
		o.disconnect(err)
		o.dropped++
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return nil
}

// ensureConn starts a background dial when no connection is open and the
// backoff window has passed. The frame that triggers it is dropped, so the
// caller never waits on the network. Backoff doubles after each failed dial
// up to MaxBackoff.
func (o *OPC) ensureConn() error {
	if o.conn != nil {
		return nil
	}
	if o.dialing || o.opts.Clock.Now().Before(o.nextDial) {
		return ErrDisconnected
	}
	o.dialing = true
	go o.dial()
	return ErrDisconnected
}

func (o *OPC) dial() {
	conn, err := o.opts.Dial(o.opts.Server)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.dialing = false
	if o.closed {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		if o.backoff == 0 {
			o.backoff = o.opts.MinBackoff
		} else {
			o.backoff = min(o.backoff*2, o.opts.MaxBackoff)
		}
		o.nextDial = o.opts.Clock.Now().Add(o.backoff)
		if o.connected || (!o.everUp && o.backoff == o.opts.MinBackoff) {
			o.opts.Logger.Warn("opc server unreachable; dropping frames", "error", err, "retry_in", o.backoff)
		}
		o.connected = false
		return
	}

	o.conn = conn
	if !o.connected {
		if o.everUp {
			o.opts.Logger.Info("reconnected to opc server", "dropped", o.dropped)
		} else {
			o.opts.Logger.Info("connected to opc server")
		}
	}
	o.connected = true
	o.everUp = true
	o.backoff = 0
	o.nextDial = time.Time{}
	o.dropped = 0
}

// dialPending reports whether a background dial is still running.
func (o *OPC) dialPending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dialing
}

func (o *OPC) disconnect(err error) {
	if o.conn != nil {
		_ = o.conn.Close()
		o.conn = nil
	}
	if o.connected {
		o.opts.Logger.Warn("lost connection to opc server", "error", err)
	}
	o.connected = false
	o.backoff = o.opts.MinBackoff
	o.nextDial = o.opts.Clock.Now().Add(o.backoff)
}

// Connected reports whether a connection to the server is open.
func (o *OPC) Connected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.connected
}

// Backoff returns the current reconnect delay, zero while connected.
func (o *OPC) Backoff() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.backoff
}

func (o *OPC) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.conn == nil {
		return nil
	}
	err := o.conn.Close()
	o.conn = nil
	o.connected = false
	return err
}

func encode(dst []byte, channel byte, pixels []lumen.Color) []byte {
	n := len(pixels) * 3
	dst = append(dst, channel, cmdSetPixels, 0, 0)
	binary.BigEndian.PutUint16(dst[2:headerSize], uint16(n))
	for _, px := range pixels {
		dst = append(dst, toByte(px.R), toByte(px.G), toByte(px.B))
	}
	return dst
}

func toByte(v float64) byte {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v + 0.5)
	}
}
