package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"

	"github.com/fsnotify/fsnotify"
)

// Edits land as a burst of events (editors write via tmp file plus rename),
// so reloads wait for the burst to settle before reading the file.
const reloadSettle = 200 * time.Millisecond

// ConfigManager owns the config file. It keeps a committed copy that each
// new session reads its tuning from, and its file watch picks up edits made
// between sessions. A bad edit never replaces a good config; a reload only
// commits after it parses and passes validation.
type ConfigManager struct {
	path string

	mu  sync.RWMutex
	cfg *Config
	// lastHash identifies the committed content so editor rewrites that
	// change nothing are not republished.
	lastHash uint64

	// subsMu guards subs and orders publish against Unsubscribe's close.
	subsMu sync.Mutex
	subs   []chan *Config

	log      logx.Logger
	validate func(cfg *Config) error
}

func NewConfigManager(path string) *ConfigManager {
	return &ConfigManager{path: path}
}

func (m *ConfigManager) SetLogger(log logx.Logger) { m.log = log }

// SetValidator installs the check a reload must pass before it is committed.
// The session rejects an unrunnable config only when it starts; validating
// here surfaces the bad edit at reload time instead.
func (m *ConfigManager) SetValidator(fn func(cfg *Config) error) { m.validate = fn }

// Parse reads and decodes the file without touching the committed copy.
func (m *ConfigManager) Parse() (*Config, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}
	return decodeStrict(m.path, raw)
}

// Load parses the file and commits it. Used once at startup; after that the
// watch keeps the committed copy fresh.
func (m *ConfigManager) Load() (*Config, error) {
	cfg, err := m.Parse()
	if err != nil {
		return nil, err
	}
	m.commit(cfg)
	return cfg, nil
}

// Get returns the committed config, nil before the first successful Load.
func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *ConfigManager) commit(cfg *Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.lastHash = hashConfig(cfg)
	m.mu.Unlock()
}

func hashConfig(cfg *Config) uint64 {
	if cfg == nil {
		return 0
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return 0
	}
	return hashBytes(b)
}

// Subscribe returns a channel receiving each committed reload.
func (m *ConfigManager) Subscribe(buffer int) chan *Config {
	ch := make(chan *Config, buffer)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *ConfigManager) Unsubscribe(ch chan *Config) {
	if ch == nil {
		return
	}
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for i, s := range m.subs {
		if s == ch {
			last := len(m.subs) - 1
			m.subs[i] = m.subs[last]
			m.subs[last] = nil
			m.subs = m.subs[:last]
			close(ch)
			return
		}
	}
}

func (m *ConfigManager) publish(cfg *Config) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		if ch == nil {
			continue
		}
		// A slow subscriber only ever needs the newest config, so a full
		// buffer sheds its oldest entry to make room.
		select {
		case ch <- cfg:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cfg:
			default:
				if !m.log.IsZero() {
					m.log.Debug("config update dropped", logx.Int("queue_cap", cap(ch)))
				}
			}
		}
	}
}

// reload handles one settled edit. Content identical to the committed copy
// is skipped; anything that fails to parse or validate is dropped with a
// warning and the committed copy stands.
func (m *ConfigManager) reload() {
	cfg, err := m.Parse()
	if err != nil {
		if !m.log.IsZero() {
			m.log.Warn("config reload parse failed; keeping previous config",
				logx.String("path", m.path), logx.Any("err", err))
		}
		return
	}

	h := hashConfig(cfg)
	m.mu.RLock()
	unchanged := h != 0 && h == m.lastHash
	m.mu.RUnlock()
	if unchanged {
		if !m.log.IsZero() {
			m.log.Debug("config content unchanged; skipping reload")
		}
		return
	}

	if m.validate != nil {
		if err := m.validate(cfg); err != nil {
			if !m.log.IsZero() {
				m.log.Warn("config reload rejected; keeping previous config",
					logx.String("path", m.path), logx.Any("err", err))
			}
			return
		}
	}

	m.commit(cfg)
	m.publish(cfg)
	if !m.log.IsZero() {
		m.log.Debug("config reloaded", logx.String("path", m.path))
	}
}

// Watch follows the config file until ctx ends, feeding settled edits through
// reload. The directory is watched rather than the file so the tmp-plus-rename
// dance editors do keeps working; events for other files in it are ignored.
func (m *ConfigManager) Watch(ctx context.Context) error {
	dir := filepath.Dir(m.path)
	base := filepath.Base(m.path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	if !m.log.IsZero() {
		m.log.Debug("config watch started", logx.String("path", m.path))
	}

	settle := time.NewTimer(time.Hour)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("config watch: event channel closed")
			}
			if !strings.EqualFold(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
				continue
			}
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(reloadSettle)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("config watch: error channel closed")
			}
			if err != nil && !m.log.IsZero() {
				m.log.Warn("config watch error", logx.Any("err", err))
			}
		case <-settle.C:
			m.reload()
		}
	}
}
