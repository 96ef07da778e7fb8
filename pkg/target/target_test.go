// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package target

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func TestResolve(t *testing.T) {
	got, err := Resolve(Config{
		Host:         "localhost",
		Port:         "9080",
		PathSegments: []string{"myapp", "servlet"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:9080/myapp/servlet", got)
}

func TestResolveNormalizes(t *testing.T) {
	tests := []struct {
		cfg      Config
		expected string
	}{
		{
			Config{Scheme: "HTTPS", Host: " example.com ", Port: " 443", PathSegments: []string{"/ctx/", "servlet/"}},
			"https://example.com:443/ctx/servlet",
		},
		{
			Config{Host: "127.0.0.1", Port: "8080", PathSegments: []string{"api/v1", "hello"}},
			"http://127.0.0.1:8080/api/v1/hello",
		},
		{
			Config{Host: "::1", Port: "8080", PathSegments: []string{"servlet"}},
			"http://[::1]:8080/servlet",
		},
		{
			Config{Host: "localhost", Port: "9080", PathSegments: []string{"hello%world"}},
			"http://localhost:9080/hello%25world",
		},
	}
	for _, test := range tests {
		got, err := Resolve(test.cfg)
		assert.NoError(t, err, "%+v", test.cfg)
		assert.Equal(t, test.expected, got)
	}
}

func TestResolveConfigurationErrors(t *testing.T) {
	valid := func() Config {
		return Config{Host: "localhost", Port: "9080", PathSegments: []string{"myapp", "servlet"}}
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
		reason string
	}{
		{"missing host", func(cfg *Config) { cfg.Host = "" }, "host", "is missing or empty"},
		{"blank host", func(cfg *Config) { cfg.Host = "   " }, "host", "is missing or empty"},
		{"host with path", func(cfg *Config) { cfg.Host = "localhost/foo" }, "host", "invalid host"},
		{"host with port", func(cfg *Config) { cfg.Host = "localhost:9080" }, "host", "invalid host"},
		{"bracketed host", func(cfg *Config) { cfg.Host = "[::1]" }, "host", "invalid host"},
		{"unbalanced bracket", func(cfg *Config) { cfg.Host = "local[host" }, "host", "invalid host"},
		{"missing port", func(cfg *Config) { cfg.Port = "" }, "port", "is missing or empty"},
		{"signed port", func(cfg *Config) { cfg.Port = "+80" }, "port", "must be a TCP port number"},
		{"negative port", func(cfg *Config) { cfg.Port = "-80" }, "port", "must be a TCP port number"},
		{"null port", func(cfg *Config) { cfg.Port = "null" }, "port", "must be a TCP port number"},
		{"port out of range", func(cfg *Config) { cfg.Port = "70000" }, "port", "must be a TCP port number"},
		{"no segments", func(cfg *Config) { cfg.PathSegments = nil }, "path", "must have at least one segment"},
		{"empty segment", func(cfg *Config) { cfg.PathSegments = []string{"", "servlet"} }, "path[0]", "is missing or empty"},
		{"slash segment", func(cfg *Config) { cfg.PathSegments = []string{"myapp", "/"} }, "path[1]", "is missing or empty"},
		{"double slash", func(cfg *Config) { cfg.PathSegments = []string{"a//b"} }, "path[0]", "invalid path segment"},
		{"unknown scheme", func(cfg *Config) { cfg.Scheme = "ftp" }, "scheme", "must be one of"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(&cfg)

			got, err := Resolve(cfg)
			assert.Empty(t, got)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))

			cerr := err.(*ConfigurationError)
			assert.Equal(t, test.field, cerr.Field)
			assert.Contains(t, cerr.Reason, test.reason)
		})
	}
}

func TestResolveGivesParsableURLs(t *testing.T) {
	for _, host := range []string{"localhost", "127.0.0.1", "::1", "example.com"} {
		resolved, err := Resolve(Config{Host: host, Port: "9080", PathSegments: []string{"myapp", "servlet"}})
		require.NoError(t, err, host)

		u, err := url.Parse(resolved)
		require.NoError(t, err, resolved)
		assert.Equal(t, host, u.Hostname())
		assert.Equal(t, "9080", u.Port())
		assert.Equal(t, "/myapp/servlet", u.Path)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	cfg := Config{Host: " localhost ", Port: "9080", PathSegments: []string{"/myapp/", "servlet"}}

	_, err := Resolve(cfg)
	assert.NoError(t, err)

	assert.Equal(t, " localhost ", cfg.Host)
	assert.Equal(t, []string{"/myapp/", "servlet"}, cfg.PathSegments)
}

func TestIsConfigurationError(t *testing.T) {
	err := fmt.Errorf("check foo: %w", &ConfigurationError{Field: "port", Reason: "is missing or empty"})
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, "check foo: target configuration: port: is missing or empty", err.Error())

	assert.False(t, IsConfigurationError(fmt.Errorf("other")))
}
