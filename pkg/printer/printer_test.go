package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValueAlignsToWidth(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Total", "1,180.00")

	out := d.Bytes()[2:] // skip ESC @
	assert.Equal(t, "Total       1,180.00\n", string(out))
}

func TestDocument_TextWraps(t *testing.T) {
	d := NewDocument(10)
	d.Text("MS Angle 40x40x5 cutting")

	assert.Equal(t, "MS Angle\n40x40x5\ncutting\n", string(d.Bytes()[2:]))
}

func TestWrap_LongWord(t *testing.T) {
	assert.Equal(t, []string{"ABCDE", "FGH"}, wrap("ABCDEFGH", 5))
	assert.Equal(t, []string{"short"}, wrap("short", 10))
}

func TestDocument_ItemLine(t *testing.T) {
	d := NewDocument(24)
	d.ItemLine("Widget", "10 x 100.00", "1,000.00")

	assert.Equal(t, "Widget\n  10 x 100.00   1,000.00\n", string(d.Bytes()[2:]))
}

func TestDocument_ResetAndCut(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, Width58mm, d.Width())

	d.Text("x").Cut()
	assert.True(t, bytes.HasSuffix(d.Bytes(), []byte{GS, 'V', 0x00}))

	d.Reset()
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
}

func TestNew(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, IsNull(p))
	assert.ErrorIs(t, p.Print(context.Background(), []byte("x")), ErrNotConfigured)

	_, err = New(Config{Type: "usb"})
	assert.Error(t, err)
	_, err = New(Config{Type: "network"})
	assert.Error(t, err)
	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)
}

func TestNetworkPrinter_Print(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Config{Type: "network", Address: ln.Addr().String()})
	require.NoError(t, err)
	assert.Equal(t, "network "+ln.Addr().String(), p.Name())

	require.NoError(t, p.Print(context.Background(), []byte("hello")))
	assert.Equal(t, []byte("hello"), <-received)
}
