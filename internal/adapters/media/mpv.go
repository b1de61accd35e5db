package media

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	requestTimeout = 2 * time.Second
	dialInterval   = 50 * time.Millisecond
	dialTimeout    = 5 * time.Second
	quitTimeout    = 2 * time.Second
)

// ErrPlayerClosed is returned by commands sent after Close.
var ErrPlayerClosed = errors.New("player closed")

// process is a started player process.
type process interface {
	Wait() error
	Kill() error
}

// launchFunc starts the player process listening on socket.
type launchFunc func(socket string) (process, error)

// MPV drives an audio-only mpv process over its JSON IPC socket.
// The process is started lazily by the first Cue.
type MPV struct {
	socket      string
	launch      launchFunc
	dialTimeout time.Duration
	logger      *zap.Logger

	// startMu serializes launches; mu guards the connection and is never
	// held while dialing.
	startMu sync.Mutex

	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	proc    process
	nextID  int
	closed  bool
	ready   bool
	onReady []func()
}

var _ ports.MediaPlayer = (*MPV)(nil)

// NewMPV creates an mpv player using the binary at path.
func NewMPV(path, dataDir string, logger *zap.Logger) *MPV {
	socket := filepath.Join(dataDir, fmt.Sprintf("mpv-%d.sock", os.Getpid()))
	return newMPV(socket, execLauncher(path), logger)
}

func newMPV(socket string, launch launchFunc, logger *zap.Logger) *MPV {
	return &MPV{
		socket:      socket,
		launch:      launch,
		dialTimeout: dialTimeout,
		logger:      logger.Named("mpv"),
	}
}

func execLauncher(path string) launchFunc {
	return func(socket string) (process, error) {
		cmd := exec.Command(path,
			"--idle=yes",
			"--no-video",
			"--no-terminal",
			"--loop-file=inf",
			"--input-ipc-server="+socket,
		)
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start %s: %w", path, err)
		}
		return execProcess{cmd}, nil
	}
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p execProcess) Wait() error { return p.cmd.Wait() }
func (p execProcess) Kill() error { return p.cmd.Process.Kill() }

// stopProcess kills proc and reaps it.
func stopProcess(proc process) {
	if proc == nil {
		return
	}
	_ = proc.Kill()
	_ = proc.Wait()
}

// Cue loads the vibe's video paused. A nil vibe stops playback.
func (p *MPV) Cue(ctx context.Context, vibe *domain.Vibe) error {
	if vibe == nil {
		if !p.started() {
			return nil
		}
		return p.command("stop")
	}

	if err := p.ensureStarted(ctx); err != nil {
		return err
	}
	if err := p.command("set_property", "pause", true); err != nil {
		return err
	}
	p.logger.Debug("cue", zap.String("vibe", vibe.ID), zap.String("url", vibe.WatchURL()))
	return p.command("loadfile", vibe.WatchURL(), "replace")
}

// SetVolume sets the playback volume, 0-100.
func (p *MPV) SetVolume(volume int) error {
	if !p.started() {
		return nil
	}
	return p.command("set_property", "volume", volume)
}

// Play resumes playback.
func (p *MPV) Play() error {
	if !p.started() {
		return nil
	}
	return p.command("set_property", "pause", false)
}

// Pause pauses playback.
func (p *MPV) Pause() error {
	if !p.started() {
		return nil
	}
	return p.command("set_property", "pause", true)
}

// OnReady registers fn to run once the IPC connection is up. If it already
// is, fn runs immediately.
func (p *MPV) OnReady(fn func()) {
	p.mu.Lock()
	if !p.ready {
		p.onReady = append(p.onReady, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn()
}

// Close quits mpv and waits for it to exit. A process that ignores the quit
// request is killed.
func (p *MPV) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	conn, proc := p.conn, p.proc
	if conn != nil {
		// mpv drops the connection on quit without replying.
		if data, err := json.Marshal(ipcRequest{Command: []any{"quit"}}); err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(requestTimeout))
			_, _ = conn.Write(append(data, '\n'))
		}
		_ = conn.Close()
	}
	p.closed = true
	p.conn = nil
	p.proc = nil
	p.mu.Unlock()

	_ = os.Remove(p.socket)
	if proc == nil {
		return nil
	}

	exited := make(chan error, 1)
	go func() { exited <- proc.Wait() }()

	var err error
	select {
	case err = <-exited:
	case <-time.After(quitTimeout):
		p.logger.Warn("mpv ignored quit, killing it")
		_ = proc.Kill()
		err = <-exited
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("failed to stop mpv: %w", err)
		}
	}
	return nil
}

func (p *MPV) started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

func (p *MPV) ensureStarted(ctx context.Context) error {
	p.startMu.Lock()
	defer p.startMu.Unlock()

	p.mu.Lock()
	closed, running := p.closed, p.conn != nil
	p.mu.Unlock()
	if closed {
		return ErrPlayerClosed
	}
	if running {
		return nil
	}

	_ = os.Remove(p.socket)
	proc, err := p.launch(p.socket)
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	conn, err := dial(dialCtx, p.socket)
	if err != nil {
		stopProcess(proc)
		return fmt.Errorf("failed to connect to mpv: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = conn.Close()
		stopProcess(proc)
		return ErrPlayerClosed
	}
	p.conn = conn
	p.reader = bufio.NewReader(conn)
	p.proc = proc
	p.ready = true
	callbacks := p.onReady
	p.onReady = nil
	p.mu.Unlock()

	p.logger.Info("player ready", zap.String("socket", p.socket))
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// dial retries until the socket accepts or ctx ends.
func dial(ctx context.Context, socket string) (net.Conn, error) {
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", socket)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialInterval):
		}
	}
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	Error     string `json:"error"`
	RequestID int    `json:"request_id"`
	Event     string `json:"event"`
}

func (p *MPV) command(args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlayerClosed
	}
	if p.conn == nil {
		return nil
	}
	return p.send(args)
}

// send writes one request and reads until its reply. Caller holds p.mu.
func (p *MPV) send(args []any) error {
	p.nextID++
	id := p.nextID

	data, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return fmt.Errorf("failed to encode mpv command: %w", err)
	}
	_ = p.conn.SetDeadline(time.Now().Add(requestTimeout))
	if _, err := p.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to send mpv command: %w", err)
	}

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("failed to read mpv reply: %w", err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return fmt.Errorf("mpv %v: %s", args[0], resp.Error)
		}
		return nil
	}
}
