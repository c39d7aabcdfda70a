// Package config defines service configuration and loading.
package config

// Config contains process configuration. Values load from an optional
// YAML file with ARENA_ prefixed environment variables layered on top.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DiscordToken authenticates the bot session. Empty runs the
	// process headless with log-only announcements.
	DiscordToken string `koanf:"discord_token"`

	// DiscordAppID is the application ID used to register commands.
	DiscordAppID string `koanf:"discord_app_id"`

	// DiscordGuildID scopes command registration to one guild.
	DiscordGuildID string `koanf:"discord_guild_id"`

	// DiscordAnnounceChannel is the channel announcements post to.
	DiscordAnnounceChannel string `koanf:"discord_announce_channel"`

	// RedisAddr is the Redis host:port.
	RedisAddr string `koanf:"redis_addr"`

	// RedisPassword is the Redis auth password, if any.
	RedisPassword string `koanf:"redis_password"`

	// RedisDB selects the Redis logical database.
	RedisDB int `koanf:"redis_db"`

	// MetricsAddr is the Prometheus scrape endpoint listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// OracleBaseURL is the match history API base URL. Empty disables
	// outcome monitoring.
	OracleBaseURL string `koanf:"oracle_base_url"`

	// QueueTimeoutMin is how long a player may wait before being dropped.
	QueueTimeoutMin int `koanf:"queue_timeout_min"`

	// CancelQuorum is how many roster votes cancel a session.
	CancelQuorum int `koanf:"cancel_quorum"`

	// ReadyCheckTimeoutMin bounds the draft ready check.
	ReadyCheckTimeoutMin int `koanf:"ready_check_timeout_min"`

	// CoinflipTimeoutMin bounds the draft coinflip call.
	CoinflipTimeoutMin int `koanf:"coinflip_timeout_min"`

	// DraftTurnTimeoutMin bounds each ban or pick turn.
	DraftTurnTimeoutMin int `koanf:"draft_turn_timeout_min"`

	// MonitorDelayRankedMin is the first-poll delay for ranked sessions.
	MonitorDelayRankedMin int `koanf:"monitor_delay_ranked_min"`

	// MonitorDelayDraftMin is the first-poll delay for draft sessions.
	MonitorDelayDraftMin int `koanf:"monitor_delay_draft_min"`

	// MonitorPollSec is the interval between oracle polls.
	MonitorPollSec int `koanf:"monitor_poll_sec"`

	// MonitorCeilingMin is the hard monitoring limit.
	MonitorCeilingMin int `koanf:"monitor_ceiling_min"`

	// ScanIntervalSec paces the queue and reconcile loops.
	ScanIntervalSec int `koanf:"scan_interval_sec"`

	// DraftSweepIntervalSec paces the draft timeout sweep.
	DraftSweepIntervalSec int `koanf:"draft_sweep_interval_sec"`

	// DraftOptionPool is the full set of draftable picks.
	DraftOptionPool []string `koanf:"draft_option_pool"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		RedisAddr:             "localhost:6379",
		RedisDB:               0,
		MetricsAddr:           ":9090",
		QueueTimeoutMin:       60,
		CancelQuorum:          6,
		ReadyCheckTimeoutMin:  10,
		CoinflipTimeoutMin:    10,
		DraftTurnTimeoutMin:   5,
		MonitorDelayRankedMin: 5,
		MonitorDelayDraftMin:  8,
		MonitorPollSec:        10,
		MonitorCeilingMin:     30,
		ScanIntervalSec:       20,
		DraftSweepIntervalSec: 60,
		DraftOptionPool: []string{
			"Brall", "Carbine", "Crysta", "Ghost", "Jin",
			"Joule", "Myth", "Saros", "Shiv", "Shrike",
			"Bishop", "Kingpin", "Felix", "Oath", "Elluna",
			"Eva", "Zeph", "Beebo", "Celeste", "Hudson",
			"Void",
		},
	}
}
