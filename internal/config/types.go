package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/selector"
)

// Config is the parsed rules file.
type Config struct {
	// Source identifies the release repository
	Source Source

	// Rules is the selection policy in priority order
	Rules selector.Rules
}

// Source identifies where releases are looked up.
type Source struct {
	Owner string
	Repo  string
	// APIURL overrides the API root; empty means the public GitHub API
	APIURL string
}

// Default returns the built-in configuration: QBDI/QBDI releases and the
// Android x86_64 rules.
func Default() *Config {
	return &Config{
		Source: Source{Owner: DefaultOwner, Repo: DefaultRepo},
		Rules:  selector.DefaultRules(),
	}
}

const (
	// DefaultOwner is the release repository owner used when none is configured
	DefaultOwner = "QBDI"
	// DefaultRepo is the release repository used when none is configured
	DefaultRepo = "QBDI"
)

// Validate checks the config for problems that would make the fetch fail later.
func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("at least one rule is required")
	}
	if err := validateName("owner", c.Source.Owner); err != nil {
		return err
	}
	if err := validateName("repo", c.Source.Repo); err != nil {
		return err
	}
	if c.Source.APIURL != "" {
		u, err := url.Parse(c.Source.APIURL)
		if err != nil {
			return fmt.Errorf("invalid api_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid api_url %q: scheme must be http or https", c.Source.APIURL)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid api_url %q: missing host", c.Source.APIURL)
		}
	}
	return nil
}

// validateName rejects repository path segments GitHub would not accept.
func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.ContainsAny(value, "/\\ ") || value == "." || value == ".." {
		return fmt.Errorf("invalid %s %q", field, value)
	}
	return nil
}
