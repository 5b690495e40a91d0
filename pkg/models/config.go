package models

import "strings"

const (
	DefaultBatchSize   = 1000
	DefaultParallelism = 4
)

type Config struct {
	Snowflake Snowflake `yaml:"snowflake"`
	Targets   []Target  `yaml:"targets"`
	Normalize Normalize `yaml:"normalize"`
	Publish   Publish   `yaml:"publish"`
}

type Snowflake struct {
	Account   string `yaml:"account"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password,omitempty"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Timeout   string `yaml:"timeout"` // e.g. "60s"
}

// Target is a named non-Snowflake load destination
type Target struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // postgres, sqlite, sqlserver or mysql
	DSN  string `yaml:"dsn"`
}

type Normalize struct {
	Root        string `yaml:"root"`        // Root table name override
	BatchSize   int    `yaml:"batch_size"`  // Rows per INSERT batch
	Parallelism int    `yaml:"parallelism"` // Tables loaded at once
}

type Publish struct {
	Dir         string `yaml:"dir"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// FindTarget looks up a target by name, case-insensitively
func (c *Config) FindTarget(name string) (Target, bool) {
	for _, t := range c.Targets {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Target{}, false
}

// ApplyDefaults fills zero-valued tuning knobs
func (c *Config) ApplyDefaults() {
	if c.Normalize.BatchSize <= 0 {
		c.Normalize.BatchSize = DefaultBatchSize
	}
	if c.Normalize.Parallelism <= 0 {
		c.Normalize.Parallelism = DefaultParallelism
	}
	if c.Publish.AuthorName == "" {
		c.Publish.AuthorName = "jsonflake"
	}
	if c.Publish.AuthorEmail == "" {
		c.Publish.AuthorEmail = "jsonflake@localhost"
	}
}
