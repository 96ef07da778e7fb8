// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package e2e

import (
	"github.com/hchauvin/smoke/pkg/smoke"
	"github.com/hchauvin/smoke/pkg/target"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("lint", func() {
	It("accepts a complete check", func() {
		err := smoke.Lint(&smoke.LintCfg{
			WorkingDir: "../examples",
			ConfigPath: ".smokerc.toml",
			CheckPaths: []string{"lint/pass"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a check without path", func() {
		err := smoke.Lint(&smoke.LintCfg{
			WorkingDir: "../examples",
			ConfigPath: ".smokerc.toml",
			CheckPaths: []string{"lint/fail"},
		})
		Expect(err).To(HaveOccurred())
		Expect(target.IsConfigurationError(err)).To(BeTrue())
	})
})
