package media

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-cli/internal/domain"
	"go.uber.org/zap"
)

// fakeMPV answers IPC requests like mpv and records their commands.
type fakeMPV struct {
	mu       sync.Mutex
	commands [][]any
	fail     string
}

func (f *fakeMPV) serve(t *testing.T, socket string) {
	t.Helper()
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.handle(conn)
		}
	}()
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req ipcRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		result := "success"
		if f.fail != "" && req.Command[0] == f.fail {
			result = "property unavailable"
		}
		f.mu.Unlock()

		// An unrelated event line first, as mpv interleaves them.
		fmt.Fprintln(conn, `{"event":"idle"}`)
		fmt.Fprintf(conn, `{"error":%q,"request_id":%d}`+"\n", result, req.RequestID)
	}
}

func (f *fakeMPV) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		out = append(out, strings.TrimSpace(fmt.Sprintln(c...)))
	}
	return out
}

// fakeProcess stands in for the mpv process. It exits on Kill unless it
// was created already exited.
type fakeProcess struct {
	mu     sync.Mutex
	kills  int
	waits  int
	exited chan struct{}
}

func newFakeProcess(alreadyExited bool) *fakeProcess {
	f := &fakeProcess{exited: make(chan struct{})}
	if alreadyExited {
		close(f.exited)
	}
	return f
}

func (f *fakeProcess) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills++
	select {
	case <-f.exited:
	default:
		close(f.exited)
	}
	return nil
}

func (f *fakeProcess) Wait() error {
	<-f.exited
	f.mu.Lock()
	f.waits++
	f.mu.Unlock()
	return nil
}

func (f *fakeProcess) counts() (kills, waits int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kills, f.waits
}

func newTestMPV(t *testing.T) (*MPV, *fakeMPV, *int) {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "s.sock")
	fake := &fakeMPV{}
	launches := 0
	launch := func(s string) (process, error) {
		launches++
		fake.serve(t, s)
		return newFakeProcess(true), nil
	}
	p := newMPV(socket, launch, zap.NewNop())
	t.Cleanup(func() { _ = p.Close() })
	return p, fake, &launches
}

func TestMPV_CommandsBeforeCueAreDropped(t *testing.T) {
	p, fake, launches := newTestMPV(t)

	require.NoError(t, p.SetVolume(30))
	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())
	require.NoError(t, p.Cue(context.Background(), nil))

	assert.Zero(t, *launches)
	assert.Empty(t, fake.recorded())
}

func TestMPV_CueAndControl(t *testing.T) {
	p, fake, launches := newTestMPV(t)

	readyCalls := 0
	p.OnReady(func() { readyCalls++ })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lofi, err := domain.FindPreset("lofi")
	require.NoError(t, err)
	require.NoError(t, p.Cue(ctx, lofi))
	require.NoError(t, p.SetVolume(40))
	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())

	rain, err := domain.FindPreset("rain")
	require.NoError(t, err)
	require.NoError(t, p.Cue(ctx, rain))
	require.NoError(t, p.Cue(ctx, nil))

	assert.Equal(t, 1, *launches, "process starts once")
	assert.Equal(t, 1, readyCalls)

	late := 0
	p.OnReady(func() { late++ })
	assert.Equal(t, 1, late, "OnReady after start runs immediately")

	assert.Equal(t, []string{
		"set_property pause true",
		"loadfile " + lofi.WatchURL() + " replace",
		"set_property volume 40",
		"set_property pause false",
		"set_property pause true",
		"set_property pause true",
		"loadfile " + rain.WatchURL() + " replace",
		"stop",
	}, fake.recorded())
}

func TestMPV_ErrorReply(t *testing.T) {
	p, fake, _ := newTestMPV(t)
	lofi, _ := domain.FindPreset("lofi")
	require.NoError(t, p.Cue(context.Background(), lofi))

	fake.mu.Lock()
	fake.fail = "set_property"
	fake.mu.Unlock()

	assert.Error(t, p.SetVolume(10))
}

func TestMPV_Closed(t *testing.T) {
	p, _, _ := newTestMPV(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	lofi, _ := domain.FindPreset("lofi")
	assert.ErrorIs(t, p.Cue(context.Background(), lofi), ErrPlayerClosed)
}

func TestMPV_DialFailureStopsProcess(t *testing.T) {
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	// The process starts but never opens its socket.
	var procs []*fakeProcess
	var procsMu sync.Mutex
	launch := func(string) (process, error) {
		proc := newFakeProcess(false)
		procsMu.Lock()
		procs = append(procs, proc)
		procsMu.Unlock()
		return proc, nil
	}
	p := newMPV(filepath.Join(dir, "s.sock"), launch, zap.NewNop())
	p.dialTimeout = 300 * time.Millisecond

	lofi, err := domain.FindPreset("lofi")
	require.NoError(t, err)

	cueErr := make(chan error, 1)
	go func() { cueErr <- p.Cue(context.Background(), lofi) }()

	// Commands are not blocked behind the pending dial.
	require.Eventually(t, func() bool {
		procsMu.Lock()
		defer procsMu.Unlock()
		return len(procs) == 1
	}, time.Second, 5*time.Millisecond)
	volumeDone := make(chan error, 1)
	go func() { volumeDone <- p.SetVolume(30) }()
	select {
	case err := <-volumeDone:
		require.NoError(t, err)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("SetVolume blocked while dialing")
	}

	select {
	case err := <-cueErr:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Cue did not give up on the socket")
	}
	kills, waits := procs[0].counts()
	assert.Equal(t, 1, kills)
	assert.Equal(t, 1, waits)
	assert.False(t, p.started())

	// A retry launches a fresh process only after the failed one is reaped.
	require.Error(t, p.Cue(context.Background(), lofi))
	procsMu.Lock()
	require.Len(t, procs, 2)
	procsMu.Unlock()
	kills, waits = procs[1].counts()
	assert.Equal(t, 1, kills)
	assert.Equal(t, 1, waits)

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close hung without a connection")
	}
}

func TestMPV_CloseKillsUnresponsiveProcess(t *testing.T) {
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	fake := &fakeMPV{}
	proc := newFakeProcess(false)
	launch := func(s string) (process, error) {
		fake.serve(t, s)
		return proc, nil
	}
	p := newMPV(filepath.Join(dir, "s.sock"), launch, zap.NewNop())

	lofi, err := domain.FindPreset("lofi")
	require.NoError(t, err)
	require.NoError(t, p.Cue(context.Background(), lofi))

	// The fake ignores quit, so Close falls back to Kill.
	require.NoError(t, p.Close())
	kills, waits := proc.counts()
	assert.Equal(t, 1, kills)
	assert.Equal(t, 1, waits)
}

func TestNop(t *testing.T) {
	var n Nop
	called := false
	n.OnReady(func() { called = true })
	assert.True(t, called)
	assert.NoError(t, n.Cue(context.Background(), nil))
	assert.NoError(t, n.Play())
	assert.NoError(t, n.Close())
}
