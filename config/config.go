package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	"gwan-server/rules"
)

// LaneBonusConfig holds the flat bonus of each lane suit.
type LaneBonusConfig struct {
	Clubs    int `json:"clubs"`
	Spades   int `json:"spades"`
	Diamonds int `json:"diamonds"`
}

// Config holds all configurable server and match parameters.
type Config struct {
	HandSize    int             `json:"hand_size"`
	LaneBonus   LaneBonusConfig `json:"lane_bonus"`
	SpyDraw     int             `json:"spy_draw"`
	RoundsToWin int             `json:"rounds_to_win"`
	MaxRounds   int             `json:"max_rounds"`
	RoundDeal   int             `json:"round_deal"`

	// TurnLimitSec is the time a player has to act; 0 disables the turn timer.
	TurnLimitSec int `json:"turn_limit_sec"`
	// TurnCountdownShowSec tells clients when to start showing the countdown.
	TurnCountdownShowSec int `json:"turn_countdown_show_sec"`
	ReconnectTimeoutSec  int `json:"reconnect_timeout_sec"`
	// DisconnectGraceSec is how long a dropped player's turn waits before they are passed.
	DisconnectGraceSec int `json:"disconnect_grace_sec"`

	MaxNameLength int `json:"max_name_length"`
	WSPort        int `json:"ws_port"`

	// DatabaseURL enables the match history store when set.
	DatabaseURL string `json:"database_url"`
	// AuthBaseURL is the identity provider serving /.well-known/jwks.json. Empty disables auth.
	AuthBaseURL string `json:"auth_base_url"`
}

// Defaults returns a Config with the standard GWAN rules and server settings.
func Defaults() *Config {
	opts := rules.DefaultOptions()
	return &Config{
		HandSize:             opts.HandSize,
		LaneBonus:            LaneBonusConfig{Clubs: opts.LaneBonus[0], Spades: opts.LaneBonus[1], Diamonds: opts.LaneBonus[2]},
		SpyDraw:              opts.SpyDraw,
		RoundsToWin:          opts.RoundsToWin,
		MaxRounds:            opts.MaxRounds,
		RoundDeal:            opts.RoundDeal,
		TurnLimitSec:         60,
		TurnCountdownShowSec: 15,
		ReconnectTimeoutSec:  120,
		DisconnectGraceSec:   10,
		MaxNameLength:        24,
		WSPort:               8080,
	}
}

// RulesOptions converts the match parameters for the rules engine.
func (c *Config) RulesOptions() rules.Options {
	return rules.Options{
		HandSize:    c.HandSize,
		LaneBonus:   [3]int{c.LaneBonus.Clubs, c.LaneBonus.Spades, c.LaneBonus.Diamonds},
		SpyDraw:     c.SpyDraw,
		RoundsToWin: c.RoundsToWin,
		MaxRounds:   c.MaxRounds,
		RoundDeal:   c.RoundDeal,
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config.json", "tag", "config", "err", err)
		}
	}

	overrideInt(&cfg.HandSize, "HAND_SIZE")
	overrideInt(&cfg.LaneBonus.Clubs, "LANE_BONUS_CLUBS")
	overrideInt(&cfg.LaneBonus.Spades, "LANE_BONUS_SPADES")
	overrideInt(&cfg.LaneBonus.Diamonds, "LANE_BONUS_DIAMONDS")
	overrideInt(&cfg.SpyDraw, "SPY_DRAW")
	overrideInt(&cfg.TurnLimitSec, "TURN_LIMIT_SEC")
	overrideInt(&cfg.TurnCountdownShowSec, "TURN_COUNTDOWN_SHOW_SEC")
	overrideInt(&cfg.ReconnectTimeoutSec, "RECONNECT_TIMEOUT_SEC")
	overrideInt(&cfg.DisconnectGraceSec, "DISCONNECT_GRACE_SEC")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid environment value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
