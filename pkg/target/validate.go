// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package target

import (
	"fmt"
	"github.com/go-playground/validator"
	"net"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(yamlFieldName)
	if err := validate.RegisterValidation("host", isHost); err != nil {
		panic(fmt.Sprintf("%v", err))
	}
	if err := validate.RegisterValidation("port", isPort); err != nil {
		panic(fmt.Sprintf("%v", err))
	}
	if err := validate.RegisterValidation("segment", isSegment); err != nil {
		panic(fmt.Sprintf("%v", err))
	}
}

func yamlFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// isHost accepts host names, IPv4 addresses and bare IPv6 addresses.  A
// host must not carry a port, brackets, or any other URL part.
func isHost(fl validator.FieldLevel) bool {
	host := fl.Field().String()
	if strings.ContainsAny(host, "/?#@") || strings.IndexFunc(host, unicode.IsSpace) >= 0 {
		return false
	}
	if strings.ContainsAny(host, ":[]") {
		ip := net.ParseIP(host)
		return ip != nil && ip.To4() == nil
	}
	return true
}

// isPort accepts decimal digits only, in 1..65535.
func isPort(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return false
	}
	port, err := strconv.Atoi(s)
	return err == nil && port >= 1 && port <= 65535
}

// isSegment accepts "a" and "a/b", but neither "a//b" nor segments with
// whitespace or a query.
func isSegment(fl validator.FieldLevel) bool {
	segment := fl.Field().String()
	if strings.ContainsAny(segment, "?#") || strings.IndexFunc(segment, unicode.IsSpace) >= 0 {
		return false
	}
	for _, component := range strings.Split(segment, "/") {
		if component == "" {
			return false
		}
	}
	return true
}

func configurationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ConfigurationError{Reason: err.Error()}
	}

	fe := verrs[0]
	field := fe.Field()
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is missing or empty"
	case "min":
		reason = "must have at least one segment"
	case "oneof":
		reason = fmt.Sprintf("must be one of: %s, got '%v'", fe.Param(), fe.Value())
	case "host":
		reason = fmt.Sprintf("invalid host '%v'", fe.Value())
	case "port":
		reason = fmt.Sprintf("must be a TCP port number (1-65535), got '%v'", fe.Value())
	case "segment":
		reason = fmt.Sprintf("invalid path segment '%v'", fe.Value())
	default:
		reason = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return &ConfigurationError{Field: field, Reason: reason}
}
