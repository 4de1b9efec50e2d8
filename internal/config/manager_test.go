package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

const minimalYAML = `automation:
  session_max: 10
`

func rewriteConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
}

func TestReloadCommitsAndPublishes(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalYAML)
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	rewriteConfig(t, path, "automation:\n  session_max: 25\n")
	m.reload()

	select {
	case cfg := <-ch:
		if cfg.Automation.SessionMax != 25 {
			t.Fatalf("published session_max = %d, want 25", cfg.Automation.SessionMax)
		}
	default:
		t.Fatalf("no config published")
	}
	if got := m.Get().Automation.SessionMax; got != 25 {
		t.Fatalf("committed session_max = %d, want 25", got)
	}
}

func TestReloadKeepsPreviousConfigOnParseError(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalYAML)
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	rewriteConfig(t, path, "automation: [not a mapping\n")
	m.reload()

	select {
	case cfg := <-ch:
		t.Fatalf("broken edit published: %+v", cfg)
	default:
	}
	if got := m.Get().Automation.SessionMax; got != 10 {
		t.Fatalf("committed session_max = %d, want previous 10", got)
	}
}

func TestReloadRejectedByValidator(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalYAML)
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	m.SetValidator(func(cfg *Config) error {
		if cfg.Automation.SessionMax > 20 {
			return errors.New("session_max too high")
		}
		return nil
	})
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	rewriteConfig(t, path, "automation:\n  session_max: 99\n")
	m.reload()
	select {
	case cfg := <-ch:
		t.Fatalf("rejected edit published: %+v", cfg)
	default:
	}
	if got := m.Get().Automation.SessionMax; got != 10 {
		t.Fatalf("committed session_max = %d, want previous 10", got)
	}

	rewriteConfig(t, path, "automation:\n  session_max: 15\n")
	m.reload()
	select {
	case cfg := <-ch:
		if cfg.Automation.SessionMax != 15 {
			t.Fatalf("published session_max = %d, want 15", cfg.Automation.SessionMax)
		}
	default:
		t.Fatalf("passing edit not published")
	}
}

func TestReloadSkipsUnchangedContent(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalYAML)
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	// Same bytes again, as when an editor saves without edits.
	rewriteConfig(t, path, minimalYAML)
	m.reload()
	select {
	case <-ch:
		t.Fatalf("unchanged content republished")
	default:
	}
}

func TestPublishDropsOldestWhenSubscriberLags(t *testing.T) {
	m := NewConfigManager("unused")
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	stale := &Config{Automation: AutomationConfig{SessionMax: 1}}
	fresh := &Config{Automation: AutomationConfig{SessionMax: 2}}
	m.publish(stale)
	m.publish(fresh)

	select {
	case cfg := <-ch:
		if cfg.Automation.SessionMax != 2 {
			t.Fatalf("got session_max = %d, want newest 2", cfg.Automation.SessionMax)
		}
	default:
		t.Fatalf("nothing delivered")
	}
}

func TestWatchReloadsAfterEdit(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalYAML)
	m := NewConfigManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher a moment to register before editing.
	time.Sleep(200 * time.Millisecond)
	rewriteConfig(t, path, "automation:\n  session_max: 33\n")

	select {
	case cfg := <-ch:
		if cfg.Automation.SessionMax != 33 {
			t.Fatalf("published session_max = %d, want 33", cfg.Automation.SessionMax)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("edit never published")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop on cancel")
	}
}
