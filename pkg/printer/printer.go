package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNotConfigured is returned by the null printer.
var ErrNotConfigured = errors.New("printer: no printer configured")

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Name describes the target for logs, e.g. "network 192.168.1.50:9100".
	Name() string
	IsConnected(ctx context.Context) bool
	Close() error
}

// Config selects and addresses the printer.
type Config struct {
	Type      string // usb, network or none
	USBPath   string
	Address   string
	Timeout   time.Duration
	CharWidth int
}

// New creates the Printer described by cfg.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, errors.New("printer: USB path is required for USB printer type")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case "network":
		if cfg.Address == "" {
			return nil, errors.New("printer: address is required for network printer type")
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return &networkPrinter{address: cfg.Address, timeout: timeout}, nil
	case "none", "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", cfg.Type)
	}
}

// IsNull reports whether p discards output.
func IsNull(p Printer) bool {
	_, ok := p.(nullPrinter)
	return ok
}

// usbPrinter writes to a device file such as /dev/usb/lp0, opening it per job.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Name() string { return "usb " + p.path }

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Close() error { return nil }

// networkPrinter dials a raw TCP port (usually 9100) per job.
type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Name() string { return "network " + p.address }

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Close() error { return nil }

// nullPrinter is used when no hardware is configured.
type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }
func (nullPrinter) Name() string                        { return "none" }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Close() error                        { return nil }
