package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds per-host overrides for crawl behavior. This lets one
// config file describe different manners for different sites, e.g. a
// longer delay for a host known to rate-limit aggressively.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Delay overrides the global crawl delay for this site.
	// If zero, the global delay is used.
	Delay time.Duration `yaml:"delay,omitempty"`

	// CacheLimit overrides the global cache limit for this site.
	// If zero, the global limit is used.
	CacheLimit time.Duration `yaml:"cacheLimit,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// UnmarshalYAML decodes a site configuration. Durations are written as
// Go duration strings ("5s", "1h30m") in the YAML file.
func (sc *SiteConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Cookie     string            `yaml:"cookie"`
		Headers    map[string]string `yaml:"headers"`
		Delay      string            `yaml:"delay"`
		CacheLimit string            `yaml:"cacheLimit"`
		UserAgent  string            `yaml:"userAgent"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	sc.Cookie = raw.Cookie
	sc.Headers = raw.Headers
	sc.UserAgent = raw.UserAgent

	if raw.Delay != "" {
		d, err := time.ParseDuration(raw.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", raw.Delay, err)
		}
		sc.Delay = d
	}
	if raw.CacheLimit != "" {
		d, err := time.ParseDuration(raw.CacheLimit)
		if err != nil {
			return fmt.Errorf("invalid cacheLimit %q: %w", raw.CacheLimit, err)
		}
		sc.CacheLimit = d
	}

	return nil
}

// File represents the structure of the .crawlsite configuration file.
type File struct {
	// Sites maps host names to their overrides.
	// Keys are bare hosts without a scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains site configuration applied to all sites unless
	// overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host, merging the
// site-specific configuration over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.Delay != 0 {
			result.Delay = siteConfig.Delay
		}
		if siteConfig.CacheLimit != 0 {
			result.CacheLimit = siteConfig.CacheLimit
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if len(siteConfig.Headers) > 0 {
			// result.Headers still aliases the defaults' map at this
			// point; merge into a copy so lookups never write back into
			// cf.Defaults.
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
	}

	return result
}

// Apply overlays a site configuration onto the global config.
func (c *Config) Apply(sc SiteConfig) {
	if sc.Delay != 0 {
		c.CrawlDelay = sc.Delay
	}
	if sc.CacheLimit != 0 {
		c.CacheLimit = sc.CacheLimit
	}
	if sc.UserAgent != "" {
		c.UserAgent = sc.UserAgent
	}
}
