package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.HandSize != 10 {
		t.Errorf("expected HandSize=10, got %d", cfg.HandSize)
	}
	if cfg.LaneBonus != (LaneBonusConfig{Clubs: 2, Spades: 3, Diamonds: 5}) {
		t.Errorf("unexpected lane bonus %+v", cfg.LaneBonus)
	}
	if cfg.RoundsToWin != 2 || cfg.MaxRounds != 3 {
		t.Errorf("expected best of three, got %d/%d", cfg.RoundsToWin, cfg.MaxRounds)
	}
	if cfg.DisconnectGraceSec != 10 || cfg.DisconnectGraceSec >= cfg.ReconnectTimeoutSec {
		t.Errorf("expected a short disconnect grace, got %d", cfg.DisconnectGraceSec)
	}
	if cfg.MaxNameLength != 24 {
		t.Errorf("expected MaxNameLength=24, got %d", cfg.MaxNameLength)
	}
	if cfg.WSPort != 8080 {
		t.Errorf("expected WSPort=8080, got %d", cfg.WSPort)
	}
	if cfg.AuthBaseURL != "" || cfg.DatabaseURL != "" {
		t.Error("auth and storage should be off by default")
	}
}

func TestRulesOptions(t *testing.T) {
	cfg := Defaults()
	cfg.LaneBonus.Diamonds = 7
	cfg.SpyDraw = 3

	opts := cfg.RulesOptions()
	if opts.LaneBonus != [3]int{2, 3, 7} {
		t.Errorf("lane bonus = %v", opts.LaneBonus)
	}
	if opts.SpyDraw != 3 || opts.HandSize != 10 {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("HAND_SIZE", "8")
	t.Setenv("LANE_BONUS_SPADES", "4")
	t.Setenv("WS_PORT", "9090")
	t.Setenv("DISCONNECT_GRACE_SEC", "3")
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com")

	cfg := Load()

	if cfg.HandSize != 8 {
		t.Errorf("expected HandSize=8 after env override, got %d", cfg.HandSize)
	}
	if cfg.LaneBonus.Spades != 4 {
		t.Errorf("expected spades bonus 4, got %d", cfg.LaneBonus.Spades)
	}
	if cfg.WSPort != 9090 {
		t.Errorf("expected WSPort=9090 after env override, got %d", cfg.WSPort)
	}
	if cfg.DisconnectGraceSec != 3 {
		t.Errorf("expected DisconnectGraceSec=3 after env override, got %d", cfg.DisconnectGraceSec)
	}
	if cfg.AuthBaseURL != "https://auth.example.com" {
		t.Errorf("unexpected AuthBaseURL %q", cfg.AuthBaseURL)
	}
	// Non-overridden fields should remain default
	if cfg.LaneBonus.Clubs != 2 {
		t.Errorf("expected clubs bonus 2 (default), got %d", cfg.LaneBonus.Clubs)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("HAND_SIZE", "invalid")

	cfg := Load()

	if cfg.HandSize != 10 {
		t.Errorf("expected HandSize=10 (default) with invalid env, got %d", cfg.HandSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"turn_limit_sec": 30, "lane_bonus": {"clubs": 1}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg := Load()
	if cfg.TurnLimitSec != 30 {
		t.Errorf("expected TurnLimitSec=30 from file, got %d", cfg.TurnLimitSec)
	}
	if cfg.LaneBonus.Clubs != 1 || cfg.LaneBonus.Spades != 3 {
		t.Errorf("lane bonus = %+v", cfg.LaneBonus)
	}
}
