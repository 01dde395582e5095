package models

// Config is the root configuration persisted to config.yaml
type Config struct {
	Snowflake Snowflake `yaml:"snowflake"`
	Seed      Seed      `yaml:"seed"`
}

// Snowflake holds warehouse connection settings
type Snowflake struct {
	Account   string `yaml:"account"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password,omitempty"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	// UseKeyring indicates the password lives in the OS keyring
	// instead of this file.
	UseKeyring bool `yaml:"use_keyring,omitempty"`
}

// Seed holds default generation parameters. Zero values fall back
// to the built-in defaults in the generator package.
type Seed struct {
	MetricsDays  int   `yaml:"metrics_days,omitempty"`
	MetricsUsers int   `yaml:"metrics_users,omitempty"`
	CampaignDays int   `yaml:"campaign_days,omitempty"`
	SegmentUsers int   `yaml:"segment_users,omitempty"`
	BatchSize    int   `yaml:"batch_size,omitempty"`
	RandomSeed   int64 `yaml:"random_seed,omitempty"`
}
