// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package e2e

import (
	"context"
	"fmt"
	"github.com/avast/retry-go"
	"github.com/hchauvin/smoke/pkg/probe"
	"github.com/hchauvin/smoke/pkg/smoke"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"os"
	"time"
)

// The servlet must be served, e.g. with `go run ./examples/server`,
// with LIBERTY_TEST_PORT and WAR_NAME set, possibly in a .env file at
// the root of the repository.
var _ = Describe("servlet endpoint", Ordered, func() {
	var url string

	BeforeAll(func() {
		port := os.Getenv("LIBERTY_TEST_PORT")
		warName := os.Getenv("WAR_NAME")
		if port == "" || warName == "" {
			Skip("LIBERTY_TEST_PORT and WAR_NAME must be set")
		}
		url = fmt.Sprintf("http://localhost:%s/%s/servlet", port, warName)

		p := probe.New(probe.Options{Timeout: time.Second})
		err := retry.Do(func() error {
			resp, err := p.Fetch(context.Background(), url)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			return resp.TransportErr
		}, retry.Attempts(10), retry.Delay(time.Second))
		Expect(err).NotTo(HaveOccurred(), "servlet not ready")
	})

	It("resolves the servlet URL", func() {
		resolved, err := smoke.Resolve(&smoke.ResolveCfg{
			WorkingDir: "../examples",
			ConfigPath: ".smokerc.toml",
			CheckPath:  "servlet",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved).To(Equal(url))
	})

	It("says hello", func() {
		outcome, err := smoke.Check(context.Background(), &smoke.CheckCfg{
			WorkingDir: "../examples",
			ConfigPath: ".smokerc.toml",
			CheckPath:  "servlet",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.Verdict.Err()).NotTo(HaveOccurred())
		Expect(outcome.Response.StatusCode).To(Equal(200))
		Expect(outcome.Response.Body).To(ContainSubstring("Hello! Is Gradle working for you?"))
	})
})
