package sink

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1000, 0)} }

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// waitDial blocks until the background dial started by a put has finished.
func waitDial(t *testing.T, o *OPC) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for o.dialPending() {
		if time.Now().After(deadline) {
			t.Fatal("dial did not finish")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEncode(t *testing.T) {
	got := encode(nil, 3, []lumen.Color{{R: 255, G: 0, B: 127.6}, {R: -4, G: 300, B: 1}})
	want := []byte{3, 0, 0, 6, 255, 0, 128, 0, 255, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("encode = %v, want %v", got, want)
	}
}

func TestOPCWritesFrames(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, headerSize+6)
		if _, err := io.ReadFull(conn, buf); err == nil {
			received <- buf
		}
	}()

	opc := NewOPC(OPCOptions{Server: ln.Addr().String()})
	defer opc.Close()
	if err := opc.PutPixels(0, nil); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("first put should drop while dialing, got %v", err)
	}
	waitDial(t, opc)
	if err := opc.PutPixels(0, []lumen.Color{{R: 10, G: 20, B: 30}, {R: 40, G: 50, B: 60}}); err != nil {
		t.Fatalf("PutPixels: %v", err)
	}
	if !opc.Connected() {
		t.Error("expected connected")
	}

	select {
	case got := <-received:
		want := []byte{0, 0, 0, 6, 10, 20, 30, 40, 50, 60}
		if !bytes.Equal(got, want) {
			t.Errorf("server got %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server received nothing")
	}
}

func TestOPCBackoff(t *testing.T) {
	clk := newFakeClock()
	dials := 0
	opc := NewOPC(OPCOptions{
		Clock:      clk,
		MinBackoff: 500 * time.Millisecond,
		MaxBackoff: 2 * time.Second,
		Dial: func(string) (net.Conn, error) {
			dials++
			return nil, errors.New("connection refused")
		},
	})

	frame := []lumen.Color{{}}
	if err := opc.PutPixels(0, frame); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("err = %v, want ErrDisconnected", err)
	}
	waitDial(t, opc)
	// Inside the backoff window no dial happens.
	for i := 0; i < 10; i++ {
		if err := opc.PutPixels(0, frame); !errors.Is(err, ErrDisconnected) {
			t.Fatalf("err = %v", err)
		}
	}
	if dials != 1 {
		t.Fatalf("dials = %d, want 1", dials)
	}

	wants := []time.Duration{time.Second, 2 * time.Second, 2 * time.Second}
	for _, want := range wants {
		clk.Sleep(opc.Backoff())
		opc.PutPixels(0, frame)
		waitDial(t, opc)
		if got := opc.Backoff(); got != want {
			t.Errorf("backoff = %v, want %v", got, want)
		}
	}
	if dials != 4 {
		t.Errorf("dials = %d, want 4", dials)
	}
}

func TestOPCReconnectResetsBackoff(t *testing.T) {
	clk := newFakeClock()
	fail := true
	opc := NewOPC(OPCOptions{
		Clock: clk,
		Dial: func(string) (net.Conn, error) {
			if fail {
				return nil, errors.New("refused")
			}
			client, server := net.Pipe()
			go io.Copy(io.Discard, server)
			return client, nil
		},
	})
	defer opc.Close()

	opc.PutPixels(0, []lumen.Color{{}})
	waitDial(t, opc)
	fail = false
	clk.Sleep(DefaultMinBackoff)
	opc.PutPixels(0, []lumen.Color{{}})
	waitDial(t, opc)
	if err := opc.PutPixels(0, []lumen.Color{{}}); err != nil {
		t.Fatalf("reconnect put: %v", err)
	}
	if opc.Backoff() != 0 || !opc.Connected() {
		t.Errorf("backoff = %v connected = %v", opc.Backoff(), opc.Connected())
	}
}

func TestOPCPutDoesNotWaitForDial(t *testing.T) {
	release := make(chan struct{})
	opc := NewOPC(OPCOptions{
		Dial: func(string) (net.Conn, error) {
			<-release
			return nil, errors.New("i/o timeout")
		},
	})
	defer opc.Close()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := opc.PutPixels(0, []lumen.Color{{}}); !errors.Is(err, ErrDisconnected) {
			t.Fatalf("put %d: err = %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("puts blocked for %v behind a hanging dial", elapsed)
	}
	if !opc.dialPending() {
		t.Error("expected a dial in flight")
	}
	close(release)
	waitDial(t, opc)
	if opc.Backoff() != DefaultMinBackoff {
		t.Errorf("backoff = %v, want %v", opc.Backoff(), DefaultMinBackoff)
	}
}

func TestOPCRejectsBadInput(t *testing.T) {
	opc := NewOPC(OPCOptions{Dial: func(string) (net.Conn, error) { t.Fatal("dialed"); return nil, nil }})
	if err := opc.PutPixels(256, nil); err == nil {
		t.Error("expected channel error")
	}
	if err := opc.PutPixels(0, make([]lumen.Color, maxPixels+1)); err == nil {
		t.Error("expected size error")
	}
	opc.Close()
	if err := opc.PutPixels(0, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestMultiAndRecorder(t *testing.T) {
	rec := NewRecorder()
	m := Multi{Null{}, rec}
	px := []lumen.Color{{R: 1}}
	if err := m.PutPixels(2, px); err != nil {
		t.Fatal(err)
	}
	px[0].R = 9
	if got := rec.Last(2); len(got) != 1 || got[0].R != 1 || rec.Count() != 1 {
		t.Errorf("recorder = %v count %d", got, rec.Count())
	}
}
