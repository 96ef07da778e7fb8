// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package mongo

import (
	"fmt"
	"strings"
)

const (
	defaultDatabase   = "smoke"
	defaultCollection = "telemetry"
)

// options are given as "uri=...;database=...;collection=...".  Only
// the uri is mandatory.
type options struct {
	uri        string
	database   string
	collection string
}

func parseConnectionString(connectionString string) (*options, error) {
	opts := &options{database: defaultDatabase, collection: defaultCollection}
	fields := map[string]*string{
		"uri":        &opts.uri,
		"database":   &opts.database,
		"collection": &opts.collection,
	}

	seen := make(map[string]bool)
	for _, component := range strings.Split(connectionString, ";") {
		component = strings.TrimSpace(component)
		if component == "" {
			continue
		}
		eq := strings.IndexByte(component, '=')
		if eq < 0 {
			return nil, fmt.Errorf("mongo telemetry: option '%s' must have format \"key=value\"", component)
		}
		key := strings.TrimSpace(component[:eq])
		value := strings.TrimSpace(component[eq+1:])

		field, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("mongo telemetry: unrecognized option '%s'", key)
		}
		if seen[key] {
			return nil, fmt.Errorf("mongo telemetry: option '%s' is given more than once", key)
		}
		if value == "" {
			return nil, fmt.Errorf("mongo telemetry: option '%s' is empty", key)
		}
		seen[key] = true
		*field = value
	}

	if opts.uri == "" {
		return nil, fmt.Errorf("mongo telemetry: option 'uri' is mandatory")
	}
	return opts, nil
}
