// Package config provides configuration structures and utilities for
// crawlsite. It defines the crawl options, per-site overrides loaded
// from the .crawlsite YAML file, and the XDG paths used for the
// fetch-history database.
package config
