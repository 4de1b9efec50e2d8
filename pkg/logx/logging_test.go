package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFileLogger(t *testing.T, level string) (Logger, *Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	svc, log := New(Config{Level: level, Console: false, File: FileConfig{Enabled: true, Path: path}})
	t.Cleanup(func() { _ = svc.Close() })
	return log, svc, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(b)
}

func TestThrottledCapsDebugOutput(t *testing.T) {
	log, _, path := newFileLogger(t, "debug")

	tl := log.Throttled(1, 2)
	for i := 0; i < 50; i++ {
		tl.Debug("noisy", Int("i", i))
	}

	out := readLog(t, path)
	got := strings.Count(out, "noisy")
	if got == 0 {
		t.Fatalf("burst should let the first events through")
	}
	// 50 back-to-back events against 1/s with burst 2 pass a handful at most.
	if got > 5 {
		t.Fatalf("throttle passed %d of 50 debug events", got)
	}
}

func TestThrottledNeverDropsInfoAndAbove(t *testing.T) {
	log, _, path := newFileLogger(t, "debug")

	tl := log.Throttled(1, 1)
	tl.Debug("drain the bucket")
	for i := 0; i < 5; i++ {
		tl.Info("kept-info")
		tl.Warn("kept-warn")
	}

	out := readLog(t, path)
	if strings.Count(out, "kept-info") != 5 || strings.Count(out, "kept-warn") != 5 {
		t.Fatalf("throttle dropped non-debug events:\n%s", out)
	}
}

func TestWithKeepsThrottle(t *testing.T) {
	log, _, path := newFileLogger(t, "debug")

	tl := log.Throttled(1, 1).With(String("comp", "x"))
	for i := 0; i < 20; i++ {
		tl.Debug("derived-noisy")
	}
	out := readLog(t, path)
	if got := strings.Count(out, "derived-noisy"); got == 0 || got > 3 {
		t.Fatalf("derived logger passed %d of 20 debug events", got)
	}
}
