package playback

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschmelyun/tvocab/internal/subtitle"
)

type fakeSource struct {
	pos   float64
	err   error
	reads int
}

func (f *fakeSource) Position() (float64, error) {
	f.reads++
	return f.pos, f.err
}

func TestTickBoundaries(t *testing.T) {
	src := &fakeSource{}
	s := NewSynchronizer(src, zerolog.Nop())
	s.Replace([]subtitle.Entry{{Start: 1.0, End: 2.0, Text: "hello"}})

	tests := []struct {
		at   float64
		want string
	}{
		{0.999, ""},
		{1.0, "hello"},
		{1.5, "hello"},
		{2.0, "hello"},
		{2.001, ""},
	}
	for _, tt := range tests {
		src.pos = tt.at
		assert.Equal(t, tt.want, s.Tick(), "at %v", tt.at)
		assert.Equal(t, tt.want, s.Active())
	}
}

func TestTickFirstMatchWins(t *testing.T) {
	src := &fakeSource{pos: 1.5}
	s := NewSynchronizer(src, zerolog.Nop())
	s.Replace([]subtitle.Entry{
		{Start: 1, End: 3, Text: "first"},
		{Start: 1, End: 2, Text: "second"},
	})

	assert.Equal(t, "first", s.Tick())
}

func TestTickWithoutEntries(t *testing.T) {
	src := &fakeSource{pos: 1}
	s := NewSynchronizer(src, zerolog.Nop())

	assert.Equal(t, "", s.Tick())
	assert.Equal(t, 0, src.reads)

	s.Replace([]subtitle.Entry{{Start: 0, End: 5, Text: "x"}})
	assert.Equal(t, "x", s.Tick())

	s.Replace(nil)
	assert.Equal(t, "", s.Tick())
}

func TestTickKeepsTextOnSourceError(t *testing.T) {
	src := &fakeSource{pos: 1}
	s := NewSynchronizer(src, zerolog.Nop())
	s.Replace([]subtitle.Entry{{Start: 0, End: 5, Text: "x"}})
	require.Equal(t, "x", s.Tick())

	src.err = errors.New("player gone")
	assert.Equal(t, "x", s.Tick())
}

func TestReplaceCopiesEntries(t *testing.T) {
	entries := []subtitle.Entry{{Start: 0, End: 1, Text: "a"}}
	s := NewSynchronizer(&fakeSource{}, zerolog.Nop())
	s.Replace(entries)

	entries[0].Text = "mutated"
	assert.Equal(t, "a", s.Entries()[0].Text)
}

func TestRunStopsOnCancel(t *testing.T) {
	var reads atomic.Int32
	src := TimeSourceFunc(func() (float64, error) {
		reads.Add(1)
		return 0.5, nil
	})
	s := NewSynchronizer(src, zerolog.Nop())
	s.Replace([]subtitle.Entry{{Start: 0, End: 1, Text: "running"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Active() == "running" }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	stopped := reads.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, reads.Load())
}

func TestClock(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewClock(func() time.Time { return now })

	pos, _ := c.Position()
	assert.Equal(t, 0.0, pos)

	assert.True(t, c.Toggle())
	now = now.Add(1500 * time.Millisecond)
	pos, _ = c.Position()
	assert.InDelta(t, 1.5, pos, 1e-9)

	assert.False(t, c.Toggle())
	now = now.Add(10 * time.Second)
	pos, _ = c.Position()
	assert.InDelta(t, 1.5, pos, 1e-9)

	c.Seek(-5)
	pos, _ = c.Position()
	assert.Equal(t, 0.0, pos)

	c.Seek(3)
	c.Play()
	now = now.Add(time.Second)
	pos, _ = c.Position()
	assert.InDelta(t, 4.0, pos, 1e-9)
}

func serveMPV(t *testing.T, conn net.Conn, reply func(req mpvRequest) string) {
	t.Helper()
	go func() {
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}
			var req mpvRequest
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			conn.Write([]byte(reply(req) + "\n"))
		}
	}()
}

func TestMPVPosition(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serveMPV(t, server, func(req mpvRequest) string {
		resp, _ := json.Marshal(map[string]any{"data": 12.25, "error": "success", "request_id": req.RequestID})
		return string(resp)
	})

	m := newMPV(client)
	m.timeout = time.Second

	pos, err := m.Position()
	require.NoError(t, err)
	assert.Equal(t, 12.25, pos)
}

func TestMPVPositionUnavailable(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serveMPV(t, server, func(req mpvRequest) string {
		resp, _ := json.Marshal(map[string]any{"error": "property unavailable", "request_id": req.RequestID})
		return string(resp)
	})

	m := newMPV(client)
	m.timeout = time.Second

	_, err := m.Position()
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestDialMPVGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := DialMPV(ctx, "/nonexistent/tvocab-test.sock")
	assert.Error(t, err)
}
