package loghandler

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

func TestCompactFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	log.Info("match started", "tag", "game", "game", "abc", "round", 1)

	line := strings.TrimSpace(buf.String())
	re := regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \[game\] match started game=abc round=1$`)
	if !re.MatchString(line) {
		t.Errorf("unexpected line %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelWarn))

	log.Info("hidden")
	log.Warn("shown", "tag", "ws")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written below the minimum level")
	}
	if !strings.Contains(out, "[ws] WARN shown") {
		t.Errorf("missing warning line: %q", out)
	}
}

func TestWithAttrsKeepsTag(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).With("tag", "storage")

	log.Info("saved", "reason", "opponent disconnected")

	out := buf.String()
	if !strings.Contains(out, "[storage] saved") {
		t.Errorf("tag from With lost: %q", out)
	}
	if !strings.Contains(out, `reason="opponent disconnected"`) {
		t.Errorf("value with spaces not quoted: %q", out)
	}
}

func TestWithGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).WithGroup("req")

	log.Info("done", "status", 200)

	if !strings.Contains(buf.String(), "req.status=200") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}
