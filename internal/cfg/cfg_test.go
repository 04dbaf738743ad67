package cfg

import (
	"flag"
	"math"
	"strings"
	"testing"
)

// validBase returns a Config with all required fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
		AlertGroupID:          "Community_Alerts_Group",
		ChannelTimeoutSeconds: 5,
		DispatchWorkers:       8,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.AlertGroupID != "Community_Alerts_Group" {
		t.Errorf("AlertGroupID = %q, want %q", c.AlertGroupID, "Community_Alerts_Group")
	}
	if c.ChannelTimeoutSeconds != 5 {
		t.Errorf("ChannelTimeoutSeconds = %d, want 5", c.ChannelTimeoutSeconds)
	}
	if c.DispatchWorkers != 8 {
		t.Errorf("DispatchWorkers = %d, want 8", c.DispatchWorkers)
	}
	if c.MatchRadiusKm != 0 {
		t.Errorf("MatchRadiusKm = %v, want 0", c.MatchRadiusKm)
	}
	if c.ClaudeModel != "claude-sonnet-4-20250514" {
		t.Errorf("ClaudeModel = %q, want %q", c.ClaudeModel, "claude-sonnet-4-20250514")
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-drain-seconds", "30",
		"-shutdown-budget-seconds", "120",
		"-http-port", "9090",
		"-database-url", "postgres://db/findtogether",
		"-twitter-webhook-url", "https://hooks.example.com/twitter",
		"-whatsapp-gateway-url", "https://wa.example.com",
		"-whatsapp-token", "wa-token",
		"-alert-group-id", "Local_Alerts",
		"-channel-timeout-seconds", "10",
		"-dispatch-workers", "16",
		"-match-radius-km", "12.5",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if c.DrainSeconds != 30 {
		t.Errorf("DrainSeconds = %d, want 30", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 120 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 120", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.DatabaseURL != "postgres://db/findtogether" {
		t.Errorf("DatabaseURL = %q, want %q", c.DatabaseURL, "postgres://db/findtogether")
	}
	if c.TwitterWebhookURL != "https://hooks.example.com/twitter" {
		t.Errorf("TwitterWebhookURL = %q, want %q", c.TwitterWebhookURL, "https://hooks.example.com/twitter")
	}
	if c.WhatsAppGatewayURL != "https://wa.example.com" {
		t.Errorf("WhatsAppGatewayURL = %q, want %q", c.WhatsAppGatewayURL, "https://wa.example.com")
	}
	if c.AlertGroupID != "Local_Alerts" {
		t.Errorf("AlertGroupID = %q, want %q", c.AlertGroupID, "Local_Alerts")
	}
	if c.ChannelTimeoutSeconds != 10 {
		t.Errorf("ChannelTimeoutSeconds = %d, want 10", c.ChannelTimeoutSeconds)
	}
	if c.DispatchWorkers != 16 {
		t.Errorf("DispatchWorkers = %d, want 16", c.DispatchWorkers)
	}
	if c.MatchRadiusKm != 12.5 {
		t.Errorf("MatchRadiusKm = %v, want 12.5", c.MatchRadiusKm)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	withBase := func(mutate func(*Config)) Config {
		c := validBase()
		mutate(&c)
		return c
	}

	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr []string // substrings that must appear in error message
	}{
		{
			name:    "defaults are valid",
			cfg:     validBase(),
			wantErr: false,
		},
		{
			name: "minimum valid values",
			cfg: Config{
				DrainSeconds: 1, ShutdownBudgetSeconds: 2, APIPort: 1,
				AlertGroupID: "g", ChannelTimeoutSeconds: 1, DispatchWorkers: 1,
			},
			wantErr: false,
		},
		{
			name: "maximum valid values",
			cfg: Config{
				DrainSeconds: 299, ShutdownBudgetSeconds: 300, APIPort: 65535,
				AlertGroupID: "g", ChannelTimeoutSeconds: 60, DispatchWorkers: 64,
				MatchRadiusKm: 500,
			},
			wantErr: false,
		},
		// DrainSeconds boundaries
		{
			name:      "drain zero",
			cfg:       withBase(func(c *Config) { c.DrainSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		{
			name:      "drain negative",
			cfg:       withBase(func(c *Config) { c.DrainSeconds = -1 }),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		{
			name: "drain above max",
			cfg: withBase(func(c *Config) {
				c.DrainSeconds = 301
				c.ShutdownBudgetSeconds = 302
			}),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		// ShutdownBudgetSeconds boundaries
		{
			name:      "budget zero",
			cfg:       withBase(func(c *Config) { c.ShutdownBudgetSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"},
		},
		{
			name:      "budget above max",
			cfg:       withBase(func(c *Config) { c.ShutdownBudgetSeconds = 301 }),
			wantErr:   true,
			errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"},
		},
		// Cross-field: budget vs drain
		{
			name:      "budget equals drain",
			cfg:       withBase(func(c *Config) { c.ShutdownBudgetSeconds = c.DrainSeconds }),
			wantErr:   true,
			errSubstr: []string{"must be greater than"},
		},
		{
			name:      "budget less than drain",
			cfg:       withBase(func(c *Config) { c.ShutdownBudgetSeconds = 30 }),
			wantErr:   true,
			errSubstr: []string{"must be greater than"},
		},
		{
			name:    "budget is drain plus one",
			cfg:     withBase(func(c *Config) { c.ShutdownBudgetSeconds = 61 }),
			wantErr: false,
		},
		// APIPort boundaries
		{
			name:      "port zero",
			cfg:       withBase(func(c *Config) { c.APIPort = 0 }),
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		{
			name:      "port above max",
			cfg:       withBase(func(c *Config) { c.APIPort = 65536 }),
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		// Alert group
		{
			name:      "empty alert group",
			cfg:       withBase(func(c *Config) { c.AlertGroupID = "" }),
			wantErr:   true,
			errSubstr: []string{"ALERT_GROUP_ID"},
		},
		// Channel timeout boundaries
		{
			name:      "channel timeout zero",
			cfg:       withBase(func(c *Config) { c.ChannelTimeoutSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"CHANNEL_TIMEOUT_SECONDS"},
		},
		{
			name:      "channel timeout above max",
			cfg:       withBase(func(c *Config) { c.ChannelTimeoutSeconds = 61 }),
			wantErr:   true,
			errSubstr: []string{"CHANNEL_TIMEOUT_SECONDS"},
		},
		// Dispatch workers boundaries
		{
			name:      "workers zero",
			cfg:       withBase(func(c *Config) { c.DispatchWorkers = 0 }),
			wantErr:   true,
			errSubstr: []string{"DISPATCH_WORKERS"},
		},
		{
			name:      "workers above max",
			cfg:       withBase(func(c *Config) { c.DispatchWorkers = 65 }),
			wantErr:   true,
			errSubstr: []string{"DISPATCH_WORKERS"},
		},
		// Match radius
		{
			name:      "negative match radius",
			cfg:       withBase(func(c *Config) { c.MatchRadiusKm = -1 }),
			wantErr:   true,
			errSubstr: []string{"MATCH_RADIUS_KM"},
		},
		{
			name:    "zero match radius means substring mode",
			cfg:     withBase(func(c *Config) { c.MatchRadiusKm = 0 }),
			wantErr: false,
		},
		// Cross-field: messenger token without gateway
		{
			name:      "whatsapp token without gateway",
			cfg:       withBase(func(c *Config) { c.WhatsAppToken = "tok" }),
			wantErr:   true,
			errSubstr: []string{"WHATSAPP_TOKEN"},
		},
		{
			name: "whatsapp token with gateway",
			cfg: withBase(func(c *Config) {
				c.WhatsAppGatewayURL = "https://wa.example.com"
				c.WhatsAppToken = "tok"
			}),
			wantErr: false,
		},
		// Cross-field: claude key without model
		{
			name: "claude key without model",
			cfg: withBase(func(c *Config) {
				c.ClaudeAPIKey = "sk-test"
				c.ClaudeModel = ""
			}),
			wantErr:   true,
			errSubstr: []string{"CLAUDE_MODEL"},
		},
		{
			name:    "no claude key and no model is fine",
			cfg:     withBase(func(c *Config) { c.ClaudeModel = "" }),
			wantErr: false,
		},
		// Error accumulation: many fields invalid at once
		{
			name:      "all fields invalid",
			cfg:       Config{DrainSeconds: 0, ShutdownBudgetSeconds: 0, APIPort: 0, MatchRadiusKm: -1},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT", "ALERT_GROUP_ID", "CHANNEL_TIMEOUT_SECONDS", "DISPATCH_WORKERS", "MATCH_RADIUS_KM"},
		},
		// Extreme values
		{
			name: "extreme negative values",
			cfg: Config{
				DrainSeconds: math.MinInt32, ShutdownBudgetSeconds: math.MinInt32,
				APIPort: math.MinInt32,
			},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				errMsg := err.Error()
				for _, sub := range tt.errSubstr {
					if !strings.Contains(errMsg, sub) {
						t.Errorf("error %q does not contain %q", errMsg, sub)
					}
				}
			}
		})
	}
}

func FuzzValidate(f *testing.F) {
	// Seeds: defaults, boundaries, extremes
	seeds := []struct {
		drain, budget, port, timeout, workers int
		radius                                float64
		group                                 string
	}{
		{60, 90, 8080, 5, 8, 0, "Community_Alerts_Group"},
		{1, 2, 1, 1, 1, 0, "g"},
		{299, 300, 65535, 60, 64, 500, "g"},
		{0, 0, 0, 0, 0, -1, ""},
		{-1, -1, -1, -1, -1, -1, ""},
		{300, 300, 65535, 60, 64, 0, "g"},
		{301, 302, 65536, 61, 65, 0, ""},
		{150, 100, 8080, 5, 8, 0, "g"},
		{math.MinInt32, math.MinInt32, math.MinInt32, math.MinInt32, math.MinInt32, 0, ""},
		{math.MaxInt32, math.MaxInt32, math.MaxInt32, math.MaxInt32, math.MaxInt32, 0, ""},
	}
	for _, s := range seeds {
		f.Add(s.drain, s.budget, s.port, s.timeout, s.workers, s.radius, s.group)
	}

	f.Fuzz(func(t *testing.T, drain, budget, port, timeout, workers int, radius float64, group string) {
		c := Config{
			DrainSeconds:          drain,
			ShutdownBudgetSeconds: budget,
			APIPort:               port,
			ChannelTimeoutSeconds: timeout,
			DispatchWorkers:       workers,
			MatchRadiusKm:         radius,
			AlertGroupID:          group,
		}
		err := c.Validate()

		drainOK := drain >= 1 && drain <= 300
		budgetOK := budget >= 1 && budget <= 300
		portOK := port >= 1 && port <= 65535
		crossOK := budget > drain
		timeoutOK := timeout >= 1 && timeout <= 60
		workersOK := workers >= 1 && workers <= 64
		radiusOK := !(radius < 0) // mirrors Validate, NaN passes
		groupOK := group != ""

		allValid := drainOK && budgetOK && portOK && crossOK && timeoutOK && workersOK && radiusOK && groupOK

		if allValid && err != nil {
			t.Errorf("expected no error for valid config %+v, got: %v", c, err)
		}
		if !allValid && err == nil {
			t.Errorf("expected error for invalid config %+v, got nil", c)
		}
	})
}
