// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package target resolves the URL of the endpoint to probe from
// externally supplied configuration.
package target

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// DefaultScheme is the scheme used when Config.Scheme is empty.
const DefaultScheme = "http"

// Config gives the location of the endpoint to probe.  The port and
// path segments are opaque configuration text, typically coming from
// environment variables set up by the build tooling.
type Config struct {
	// Scheme is either "http" or "https".  Defaults to DefaultScheme.
	Scheme string `yaml:"scheme,omitempty" validate:"omitempty,oneof=http https"`

	// Host is the host name or IP address of the server.
	Host string `yaml:"host" validate:"required,host"`

	// Port is the TCP port of the server.
	Port string `yaml:"port" validate:"required,port"`

	// PathSegments are joined with "/" to give the path, e.g., the
	// context root followed by the resource name.
	PathSegments []string `yaml:"path" validate:"min=1,dive,required,segment"`
}

// ConfigurationError is returned when the target configuration is
// incomplete or malformed.
type ConfigurationError struct {
	// Field is the offending field, using the names of the check files
	// (e.g., "port", "path[1]").
	Field string

	// Reason explains what is wrong with the field.
	Reason string
}

func (err *ConfigurationError) Error() string {
	if err.Field == "" {
		return "target configuration: " + err.Reason
	}
	return fmt.Sprintf("target configuration: %s: %s", err.Field, err.Reason)
}

// IsConfigurationError tells whether an error is, or wraps, a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}

// Resolve gives the URL "scheme://host:port/seg1/seg2/...".  Surrounding
// whitespace is ignored everywhere, and surrounding slashes are ignored
// in path segments.  Resolve never produces a URL from an incomplete
// configuration: it returns a *ConfigurationError instead.
func Resolve(cfg Config) (string, error) {
	normalized := normalize(cfg)
	if err := validate.Struct(&normalized); err != nil {
		return "", configurationError(err)
	}

	var path strings.Builder
	for _, segment := range normalized.PathSegments {
		for _, component := range strings.Split(segment, "/") {
			path.WriteByte('/')
			path.WriteString(url.PathEscape(component))
		}
	}

	return normalized.Scheme + "://" + net.JoinHostPort(normalized.Host, normalized.Port) + path.String(), nil
}

func normalize(cfg Config) Config {
	normalized := Config{
		Scheme: strings.ToLower(strings.TrimSpace(cfg.Scheme)),
		Host:   strings.TrimSpace(cfg.Host),
		Port:   strings.TrimSpace(cfg.Port),
	}
	if normalized.Scheme == "" {
		normalized.Scheme = DefaultScheme
	}
	if cfg.PathSegments != nil {
		normalized.PathSegments = make([]string, len(cfg.PathSegments))
		for i, segment := range cfg.PathSegments {
			normalized.PathSegments[i] = strings.Trim(strings.TrimSpace(segment), "/")
		}
	}
	return normalized
}
