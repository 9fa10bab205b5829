package terminal

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Terminal is the interface to an external card-capture device. The wire
// format behind ProcessPayment is the device vendor's concern; callers
// only see success or a typed failure.
type Terminal interface {
	// ProcessPayment asks the device to capture the given amount in minor
	// currency units. Blocks until the device answers or ctx is done.
	ProcessPayment(ctx context.Context, amountMinor int64, currency string) error
	// Cancel aborts any in-flight capture attempt. Safe to call when no
	// capture is running.
	Cancel() error
	// IsConnected returns true if the device is reachable.
	IsConnected() bool
}

// --- Network Terminal (dials TCP, e.g. 192.168.1.50:7210) ---

type networkTerminal struct {
	address string
	timeout time.Duration

	mu     sync.Mutex
	active net.Conn // in-flight capture connection, nil when idle
}

// NewNetworkTerminal creates a terminal client that connects via TCP.
// Address should include port, e.g. "192.168.1.50:7210".
func NewNetworkTerminal(address string) Terminal {
	return &networkTerminal{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (t *networkTerminal) ProcessPayment(ctx context.Context, amountMinor int64, currency string) error {
	dialer := net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.address)
	if err != nil {
		return fmt.Errorf("terminal: failed to connect to %s: %w", t.address, err)
	}
	defer conn.Close()

	t.mu.Lock()
	t.active = conn
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.active = nil
		t.mu.Unlock()
	}()

	// Closing the connection on ctx cancellation unblocks the read below.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := fmt.Fprintf(conn, "SALE %d %s\n", amountMinor, currency); err != nil {
		return fmt.Errorf("terminal: failed to send capture request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("terminal: failed to read capture response: %w", err)
	}

	line = strings.TrimSpace(line)
	switch {
	case line == "OK":
		return nil
	case strings.HasPrefix(line, "ERR"):
		msg := strings.TrimSpace(strings.TrimPrefix(line, "ERR"))
		if msg == "" {
			msg = "capture declined"
		}
		return fmt.Errorf("terminal: %s", msg)
	default:
		return fmt.Errorf("terminal: unexpected response %q", line)
	}
}

func (t *networkTerminal) Cancel() error {
	t.mu.Lock()
	conn := t.active
	t.mu.Unlock()

	if conn != nil {
		// Drop the in-flight capture; the device treats a closed session
		// as an abort.
		return conn.Close()
	}

	// Best-effort cancel of anything the device may still hold.
	c, err := net.DialTimeout("tcp", t.address, 2*time.Second)
	if err != nil {
		return nil
	}
	defer c.Close()
	_, _ = c.Write([]byte("CANCEL\n"))
	return nil
}

func (t *networkTerminal) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", t.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// --- Null Terminal (approves everything, used without hardware) ---

type nullTerminal struct{}

// NewNullTerminal creates a terminal that approves every capture. For
// development and cash-only deployments.
func NewNullTerminal() Terminal {
	return &nullTerminal{}
}

func (t *nullTerminal) ProcessPayment(ctx context.Context, amountMinor int64, currency string) error {
	return nil
}

func (t *nullTerminal) Cancel() error {
	return nil
}

func (t *nullTerminal) IsConnected() bool {
	return false
}

// NewTerminalFromConfig creates the appropriate Terminal based on type.
//
//	terminalType: "network" or "none"
//	address: TCP address for network terminals (e.g. "192.168.1.50:7210")
func NewTerminalFromConfig(terminalType, address string) (Terminal, error) {
	switch terminalType {
	case "network":
		if address == "" {
			return nil, fmt.Errorf("terminal: address is required for network terminal type")
		}
		return NewNetworkTerminal(address), nil
	case "none", "":
		return NewNullTerminal(), nil
	default:
		return nil, fmt.Errorf("terminal: unknown terminal type %q (use network or none)", terminalType)
	}
}
