package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/log"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// Options configure an mpv instance.
type Options struct {
	// Binary is the mpv executable, "mpv" when empty.
	Binary     string
	Fullscreen bool
	// AudioOnly plays without a window, for music under slides.
	AudioOnly bool
	// Name tells instances apart in socket names and logs.
	Name string
}

func (o Options) args(socketPath string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--keep-open=no",
		"--input-ipc-server=" + socketPath,
		"--title=" + constant.Preshow,
	}

	if o.AudioOnly {
		return append(args, "--force-window=no", "--video=no")
	}

	args = append(args, "--force-window=yes", "--image-display-duration=inf")
	if o.Fullscreen {
		args = append(args, "--fullscreen")
	}
	return args
}

// MPV is a Device backed by an mpv process started on first use.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	listener   *eventListener
	mu         sync.Mutex // serializes IPC commands
	startMu    sync.Mutex
}

// NewMPV returns an mpv device; the process starts with the first Play.
func NewMPV(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.Name == "" {
		opts.Name = "video"
	}
	return &MPV{opts: opts, exited: make(chan struct{})}
}

func (m *MPV) running() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// start launches mpv idle unless it already runs.
func (m *MPV) start() error {
	m.startMu.Lock()
	defer m.startMu.Unlock()

	if m.running() {
		return nil
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s-%x.sock", constant.Preshow, m.opts.Name, randomBytes))
	}

	cmd := exec.Command(m.opts.Binary, m.opts.args(m.socketPath)...)
	cmd.SysProcAttr = procAttr()
	cmd.Stdout, cmd.Stderr, cmd.Stdin = nil, nil, nil

	if err := cmd.Start(); err != nil {
		return &DeviceError{Op: "start", Err: err}
	}

	exited := make(chan struct{})
	m.cmd, m.exited = cmd, exited
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv %s: socket never became ready", m.opts.Name)
			forceQuit(m.cmd)
		}
		return &DeviceError{Op: "start", Err: err}
	}

	listener := newEventListener(m.socketPath)
	if err := listener.start(); err != nil {
		return &DeviceError{Op: "start", Err: err}
	}
	m.listener = listener

	log.Infof("mpv %s started on %s", m.opts.Name, m.socketPath)
	return nil
}

// waitForSocket polls until the mpv IPC socket accepts connections.
func (m *MPV) waitForSocket() error {
	for range socketWaitRetries {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before its socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) Play(ctx context.Context, items ...Media) error {
	if len(items) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.start(); err != nil {
		return err
	}

	first := items[0]
	if first.UserAgent != "" {
		if _, err := m.sendCommand("set_property", "user-agent", first.UserAgent); err != nil {
			log.Warnf("mpv user agent: %s", err)
		}
	}
	if _, err := m.sendCommand("set_property", "force-media-title", sanitizeTitle(first.Title)); err != nil {
		log.Warnf("mpv title: %s", err)
	}

	for i, item := range items {
		target, err := sanitizeMediaTarget(item.Path)
		if err != nil {
			return &DeviceError{Op: "play", Path: item.Path, Err: err}
		}

		mode := lo.Ternary(i == 0, "replace", "append-play")
		if _, err := m.sendCommand("loadfile", target, mode); err != nil {
			return &DeviceError{Op: "play", Path: item.Path, Err: err}
		}
	}

	_, err := m.sendCommand("set_property", "pause", false)
	return err
}

func (m *MPV) Stop() error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("stop")
	return err
}

func (m *MPV) SetPause(paused bool) error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("set_property", "pause", paused)
	return err
}

func (m *MPV) Volume() (int, error) {
	if !m.running() {
		return 100, nil
	}
	v, err := m.getFloatProperty("volume")
	return int(v + 0.5), err
}

func (m *MPV) SetVolume(level int) error {
	if err := m.start(); err != nil {
		return err
	}
	_, err := m.sendCommand("set_property", "volume", max(0, min(level, 100)))
	return err
}

func (m *MPV) Playing() bool {
	if !m.running() {
		return false
	}
	idle, err := m.sendCommand("get_property", "idle-active")
	if err != nil {
		return false
	}
	return !cast.ToBool(idle)
}

func (m *MPV) Chapter() (current, count int, err error) {
	n, err := m.sendCommand("get_property", "chapters")
	if err != nil {
		return -1, 0, err
	}
	count = cast.ToInt(n)
	if count == 0 {
		return -1, 0, nil
	}

	c, err := m.sendCommand("get_property", "chapter")
	if err != nil {
		var refused *mpvError
		if errors.As(err, &refused) && refused.reply == errPropertyUnavailable {
			return -1, count, nil
		}
		return -1, count, err
	}
	return cast.ToInt(c), count, nil
}

// Events delivers the events of the running process. It is nil before the
// first Play.
func (m *MPV) Events() <-chan Event {
	if m.listener == nil {
		return nil
	}
	return m.listener.events
}

// Wait returns a channel closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close quits mpv and removes its socket.
func (m *MPV) Close() error {
	if m.cmd == nil {
		return nil
	}

	if m.running() {
		_, _ = m.sendCommand("quit")
		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			forceQuit(m.cmd)
		}
	}

	if m.listener != nil {
		m.listener.stop()
	}
	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected a number, got %T", name, data)
	}
	return val, nil
}

// sanitizeMediaTarget rejects targets mpv would read as flags and URLs of
// schemes other than http(s).
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty path")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in path")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("path must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens a title to one line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
