// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package checks

import (
	"fmt"
	"github.com/go-playground/validator"
	"regexp"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("name", isName); err != nil {
		panic(fmt.Sprintf("%v", err))
	}
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func isName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return nameRe.MatchString(name) && name != "." && name != ".."
}
