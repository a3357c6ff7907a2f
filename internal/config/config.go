package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CompanyEntry seeds one registry row from YAML.
type CompanyEntry struct {
	Platform string `yaml:"platform"`
	Slug     string `yaml:"slug"`
	Name     string `yaml:"name"`
}

type Config struct {
	App struct {
		DataDir  string `yaml:"data_dir"`
		DBPath   string `yaml:"db_path"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Scrape struct {
		IntervalMinutes   int     `yaml:"interval_minutes"`
		TimeBudgetMinutes int     `yaml:"time_budget_minutes"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		FailureThreshold  int     `yaml:"failure_threshold"`
	} `yaml:"scrape"`

	Cleanup struct {
		IntervalHours         int `yaml:"interval_hours"`
		StaleAfterDays        int `yaml:"stale_after_days"`
		ReactivateWindowHours int `yaml:"reactivate_window_hours"`
	} `yaml:"cleanup"`

	Classification struct {
		VocabularyPath string `yaml:"vocabulary_path"`
	} `yaml:"classification"`

	Companies []CompanyEntry `yaml:"companies"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// OverlayCompanies replaces the seed list with the contents of a standalone
// companies file. A missing file is not an error; operators may keep the
// list inline.
func OverlayCompanies(cfg *Config, companiesPath string) error {
	b, err := os.ReadFile(companiesPath)
	if err != nil {
		return nil
	}
	var cf struct {
		Companies []CompanyEntry `yaml:"companies"`
	}
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return err
	}
	if len(cf.Companies) > 0 {
		cfg.Companies = cf.Companies
	}
	return nil
}

// OverlayEnv applies .env and process environment on top of the file
// config. Only a handful of deploy-specific knobs are exposed this way.
func OverlayEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("GENZJOBS_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("GENZJOBS_DB_PATH"); v != "" {
		cfg.App.DBPath = v
	}
	if v := os.Getenv("GENZJOBS_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("GENZJOBS_SCRAPE_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scrape.IntervalMinutes = n
		}
	}
}
