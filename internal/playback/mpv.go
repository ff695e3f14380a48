package playback

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// ErrNoPosition is returned while the player has no file loaded.
var ErrNoPosition = errors.New("player has no playback position")

// MPV reads the playback position of a running mpv over its JSON IPC socket
// (started with --input-ipc-server).
type MPV struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	nextID  int
	timeout time.Duration
}

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type mpvResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

// DialMPV connects to the IPC socket at path, retrying until ctx is done. mpv
// creates the socket shortly after it starts.
func DialMPV(ctx context.Context, path string) (*MPV, error) {
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", path)
		if err == nil {
			return newMPV(conn), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to mpv at %s: %w", path, err)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func newMPV(conn net.Conn) *MPV {
	return &MPV{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: 200 * time.Millisecond,
	}
}

func (m *MPV) Position() (float64, error) {
	raw, err := m.command("get_property", "time-pos")
	if err != nil {
		return 0, err
	}

	var pos *float64
	if err := json.Unmarshal(raw, &pos); err != nil {
		return 0, fmt.Errorf("failed to decode time-pos: %w", err)
	}
	if pos == nil {
		return 0, ErrNoPosition
	}
	return *pos, nil
}

// Quit asks the player to exit.
func (m *MPV) Quit() error {
	_, err := m.command("quit")
	return err
}

func (m *MPV) Close() error {
	return m.conn.Close()
}

func (m *MPV) command(args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID

	payload, err := json.Marshal(mpvRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	if err := m.conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return nil, err
	}
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write mpv command: %w", err)
	}

	// Events are interleaved with replies on the same socket.
	for {
		line, err := m.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read mpv reply: %w", err)
		}

		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error == "property unavailable" {
			return nil, ErrNoPosition
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}
		return resp.Data, nil
	}
}
