package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config adds app-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	DatabaseURL           string
	TwitterWebhookURL     string
	FacebookWebhookURL    string
	WhatsAppGatewayURL    string
	WhatsAppToken         string
	AlertGroupID          string
	ChannelTimeoutSeconds int
	DispatchWorkers       int
	MatchRadiusKm         float64
	GoogleMapsAPIKey      string
	ClaudeAPIKey          string
	ClaudeModel           string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.TwitterWebhookURL, "twitter-webhook-url", "", "webhook URL for the Twitter alert channel (empty = log-only)")
	fs.StringVar(&c.FacebookWebhookURL, "facebook-webhook-url", "", "webhook URL for the Facebook alert channel (empty = log-only)")
	fs.StringVar(&c.WhatsAppGatewayURL, "whatsapp-gateway-url", "", "WhatsApp gateway base URL for group and direct messages (empty = log-only)")
	fs.StringVar(&c.WhatsAppToken, "whatsapp-token", "", "bearer token for the WhatsApp gateway")
	fs.StringVar(&c.AlertGroupID, "alert-group-id", "Community_Alerts_Group", "messenger group that receives every public alert")
	fs.IntVar(&c.ChannelTimeoutSeconds, "channel-timeout-seconds", 5, "per-channel timeout for alert broadcast (1..60)")
	fs.IntVar(&c.DispatchWorkers, "dispatch-workers", 8, "max concurrent volunteer messages and photo comparisons (1..64)")
	fs.Float64Var(&c.MatchRadiusKm, "match-radius-km", 0, "volunteer match radius in km (0 = address substring matching)")
	fs.StringVar(&c.GoogleMapsAPIKey, "google-maps-api-key", "", "Google Maps API key for geocoding (empty = fixed pilot-area coordinates)")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for sighting photo comparison (empty = comparisons disabled)")
	fs.StringVar(&c.ClaudeModel, "claude-model", "claude-sonnet-4-20250514", "Claude model used for sighting photo comparison")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Every alert broadcast targets the community group
	if c.AlertGroupID == "" {
		errs = append(errs, errors.New("ALERT_GROUP_ID is required"))
	}

	if c.ChannelTimeoutSeconds <= 0 || c.ChannelTimeoutSeconds > 60 {
		errs = append(errs, fmt.Errorf("invalid CHANNEL_TIMEOUT_SECONDS %d (must be 1..60)", c.ChannelTimeoutSeconds))
	}

	if c.DispatchWorkers <= 0 || c.DispatchWorkers > 64 {
		errs = append(errs, fmt.Errorf("invalid DISPATCH_WORKERS %d (must be 1..64)", c.DispatchWorkers))
	}

	if c.MatchRadiusKm < 0 {
		errs = append(errs, fmt.Errorf("invalid MATCH_RADIUS_KM %v (must not be negative)", c.MatchRadiusKm))
	}

	// A token without a gateway URL is a misconfiguration
	if c.WhatsAppToken != "" && c.WhatsAppGatewayURL == "" {
		errs = append(errs, errors.New("WHATSAPP_TOKEN set without WHATSAPP_GATEWAY_URL"))
	}

	// Claude model is required once photo comparison is enabled
	if c.ClaudeAPIKey != "" && c.ClaudeModel == "" {
		errs = append(errs, errors.New("CLAUDE_MODEL is required when CLAUDE_API_KEY is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
