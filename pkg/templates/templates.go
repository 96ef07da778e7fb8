// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package templates implements the gotemplate expansion shared by the
// project config and the check files.
package templates

import (
	"bytes"
	"fmt"
	"github.com/Masterminds/sprig"
	"runtime"
	"text/template"
)

// TxtFuncMap gives the template functions specific to smoke.  They come
// on top of the sprig functions.
func TxtFuncMap() template.FuncMap {
	return template.FuncMap{
		"os":   func() string { return runtime.GOOS },
		"arch": func() string { return runtime.GOARCH },
	}
}

// Expand expands a template with the sprig functions, the functions
// of TxtFuncMap, and the given data.  Missing environment variables
// (sprig's "env") expand to the empty string.
func Expand(name string, tplStr string, data map[string]interface{}) ([]byte, error) {
	tpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Funcs(TxtFuncMap()).
		Parse(tplStr)
	if err != nil {
		return nil, fmt.Errorf("cannot parse template: %v", err)
	}
	w := &bytes.Buffer{}
	if err := tpl.Execute(w, data); err != nil {
		return nil, fmt.Errorf("cannot expand template: %v", err)
	}
	return w.Bytes(), nil
}
