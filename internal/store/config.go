package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"spx-gex/internal/types"
)

const (
	DefaultSourceURL = "https://gflows.up.railway.app"
	DefaultSymbol    = "SPX"
	DefaultDataDir   = "data"
	DefaultLogFile   = "spx_gex.csv"

	EngineChromedp = "chromedp"
	EngineStatic   = "static"
)

type Config struct {
	SourceURL string `yaml:"source_url"`
	Symbol    string `yaml:"symbol"`
	DataDir   string `yaml:"data_dir"`
	LogFile   string `yaml:"log_file"`
	Engine    string `yaml:"engine"`
	Browser   struct {
		Headless          bool          `yaml:"headless"`
		RemoteURL         string        `yaml:"remote_url"`
		Width             int           `yaml:"width"`
		Height            int           `yaml:"height"`
		IgnoreHTTPSErrors bool          `yaml:"ignore_https_errors"`
		UserAgent         string        `yaml:"user_agent"`
		LoadTimeout       time.Duration `yaml:"load_timeout"`
		Settle            time.Duration `yaml:"settle"`
	} `yaml:"browser"`
	Extract struct {
		WaitPattern    string        `yaml:"wait_pattern"`
		WaitTimeout    time.Duration `yaml:"wait_timeout"`
		GracePause     time.Duration `yaml:"grace_pause"`
		HarvestTimeout time.Duration `yaml:"harvest_timeout"`
	} `yaml:"extract"`
	Navigation []types.NavigationStep `yaml:"navigation"`
	Store      struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
}

// LogPath is the CSV log location inside the data directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return errors.New("source_url cannot be empty")
	}
	if c.Symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	if c.LogFile == "" {
		return errors.New("log_file cannot be empty")
	}
	if c.Engine != EngineChromedp && c.Engine != EngineStatic {
		return fmt.Errorf("invalid engine '%s': must be '%s' or '%s'", c.Engine, EngineChromedp, EngineStatic)
	}
	if c.Browser.LoadTimeout <= 0 {
		return fmt.Errorf("browser.load_timeout must be positive, got %s", c.Browser.LoadTimeout)
	}
	if c.Extract.WaitTimeout <= 0 {
		return fmt.Errorf("extract.wait_timeout must be positive, got %s", c.Extract.WaitTimeout)
	}
	if c.Extract.HarvestTimeout <= 0 {
		return fmt.Errorf("extract.harvest_timeout must be positive, got %s", c.Extract.HarvestTimeout)
	}
	if _, err := regexp.Compile("(?i)" + c.Extract.WaitPattern); err != nil {
		return fmt.Errorf("extract.wait_pattern does not compile: %w", err)
	}
	for i, step := range c.Navigation {
		if step.Name == "" {
			return fmt.Errorf("navigation[%d]: name cannot be empty", i)
		}
		if step.Timeout <= 0 {
			return fmt.Errorf("navigation step '%s': timeout must be positive", step.Name)
		}
		for j, loc := range step.Candidates {
			switch loc.Strategy {
			case types.StrategyCSS, types.StrategyID, types.StrategyXPath, types.StrategyText:
			case types.StrategyRole:
				if loc.Role == "" {
					return fmt.Errorf("navigation step '%s' candidate %d: role strategy needs role", step.Name, j)
				}
			default:
				return fmt.Errorf("navigation step '%s' candidate %d: unknown strategy '%s'", step.Name, j, loc.Strategy)
			}
			if loc.Value == "" && loc.Strategy != types.StrategyRole {
				return fmt.Errorf("navigation step '%s' candidate %d: value cannot be empty", step.Name, j)
			}
		}
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.SourceURL = DefaultSourceURL
	c.Symbol = DefaultSymbol
	c.DataDir = DefaultDataDir
	c.LogFile = DefaultLogFile
	c.Engine = EngineChromedp
	c.Browser.Headless = true
	c.Browser.Width = 1280
	c.Browser.Height = 800
	c.Browser.IgnoreHTTPSErrors = true
	c.Browser.LoadTimeout = 120 * time.Second
	c.Browser.Settle = 1500 * time.Millisecond
	c.Extract.WaitPattern = `Total\s*Gamma`
	c.Extract.WaitTimeout = 8 * time.Second
	c.Extract.GracePause = time.Second
	c.Extract.HarvestTimeout = 10 * time.Second
	c.Navigation = DefaultNavigation()
	return &c
}

// DefaultNavigation is the plan for the gflows dashboard: cookie banner,
// SPX instrument, Gamma tab.
func DefaultNavigation() []types.NavigationStep {
	const spx = "S&P 500 INDEX (SPX)"
	return []types.NavigationStep{
		{
			Name:    "dismiss_overlay",
			Timeout: 2 * time.Second,
			Candidates: []types.Locator{
				{Strategy: types.StrategyCSS, Value: "#onetrust-accept-btn-handler"},
				{Strategy: types.StrategyText, Tag: "button", Value: "Accept"},
				{Strategy: types.StrategyText, Tag: "button", Value: "Zgadzam"},
			},
		},
		{
			Name:    "select_instrument",
			Timeout: 3 * time.Second,
			Candidates: []types.Locator{
				{Strategy: types.StrategyText, Tag: "a", Value: spx},
				{Strategy: types.StrategyText, Tag: "button", Value: spx},
				{Strategy: types.StrategyText, Value: spx},
			},
		},
		{
			Name:    "select_view",
			Timeout: 3 * time.Second,
			Candidates: []types.Locator{
				{Strategy: types.StrategyText, Tag: "button", Value: "Gamma"},
				{Strategy: types.StrategyRole, Role: "tab", Value: "Gamma"},
				{Strategy: types.StrategyText, Value: "Gamma"},
			},
		},
	}
}

// LoadConfig reads path over the defaults (a missing file keeps the
// defaults), applies environment overrides and validates.
func LoadConfig(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(c)

	if c.Engine == "" {
		c.Engine = EngineChromedp
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Extract.WaitPattern == "" {
		c.Extract.WaitPattern = `Total\s*Gamma`
	}
	if len(c.Navigation) == 0 {
		c.Navigation = DefaultNavigation()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("GFLOW_URL"); v != "" {
		c.SourceURL = v
	}
	if v := os.Getenv("GEX_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("GEX_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := os.Getenv("GEX_SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv("CHROME_REMOTE_URL"); v != "" {
		c.Browser.RemoteURL = v
	}
}
