// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package verify

import (
	"context"
	"fmt"
	"github.com/hchauvin/smoke/pkg/probe"
	"github.com/phayes/freeport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

const greeting = "Hello! Is Gradle working for you?"

func TestVerifyPass(t *testing.T) {
	resp := &probe.Response{
		URL:        "http://localhost:9080/myapp/servlet",
		StatusCode: 200,
		Body:       greeting + " Extra text.",
	}
	v := Verify(resp, Expectation{Status: 200, BodyContains: greeting})
	assert.True(t, v.Passed)
	assert.Equal(t, Pass, v.Kind)
	assert.Empty(t, v.Message)
	assert.NoError(t, v.Err())
}

func TestVerifyDefaultStatus(t *testing.T) {
	assert.Equal(t, 200, Expectation{}.ExpectedStatus())
	assert.Equal(t, 204, Expectation{Status: 204}.ExpectedStatus())

	v := Verify(&probe.Response{StatusCode: 200}, Expectation{})
	assert.True(t, v.Passed)
}

func TestVerifyStatusMismatch(t *testing.T) {
	resp := &probe.Response{
		URL:        "http://localhost:9080/myapp/servlet",
		StatusCode: 404,
		Body:       greeting,
	}
	v := Verify(resp, Expectation{Status: 200, BodyContains: greeting})
	assert.False(t, v.Passed)
	assert.Equal(t, StatusMismatch, v.Kind)
	assert.Contains(t, v.Message, "404")
	assert.Contains(t, v.Message, "200")

	err := v.Err()
	require.Error(t, err)
	failure, ok := err.(*Failure)
	require.True(t, ok)
	assert.True(t, failure.IsAssertion())
	assert.Equal(t, v.Message, err.Error())
}

func TestVerifyStatusBeforeBody(t *testing.T) {
	v := Verify(&probe.Response{StatusCode: 500, Body: "Goodbye"}, Expectation{BodyContains: greeting})
	assert.Equal(t, StatusMismatch, v.Kind)
	assert.NotContains(t, v.Message, "Goodbye")
}

func TestVerifyBodyMismatch(t *testing.T) {
	resp := &probe.Response{
		URL:        "http://localhost:9080/myapp/servlet",
		StatusCode: 200,
		Body:       "Goodbye",
	}
	v := Verify(resp, Expectation{BodyContains: greeting})
	assert.False(t, v.Passed)
	assert.Equal(t, BodyMismatch, v.Kind)
	assert.Contains(t, v.Message, "Goodbye")
	assert.Contains(t, v.Message, greeting)
	assert.Contains(t, v.Message, "full body")
}

func TestVerifyBodyMismatchTruncated(t *testing.T) {
	v := Verify(&probe.Response{StatusCode: 200, Body: "Good", Truncated: true}, Expectation{BodyContains: greeting})
	assert.Equal(t, BodyMismatch, v.Kind)
	assert.Contains(t, v.Message, "first 4 bytes")
}

func TestVerifyBodyIsLiteral(t *testing.T) {
	v := Verify(&probe.Response{StatusCode: 200, Body: "Hello! Is Gradle working for you?"}, Expectation{BodyContains: "Is Gradle.*"})
	assert.False(t, v.Passed)
}

func TestVerifyTransportFailureSkipsOtherChecks(t *testing.T) {
	resp := &probe.Response{
		URL: "http://localhost:1/myapp/servlet",
		TransportErr: &probe.TransportFailure{
			URL: "http://localhost:1/myapp/servlet",
			Op:  "request",
			Err: fmt.Errorf("dial tcp 127.0.0.1:1: connect: connection refused"),
		},
	}
	v := Verify(resp, Expectation{BodyContains: greeting})
	assert.False(t, v.Passed)
	assert.Equal(t, TransportFailure, v.Kind)
	assert.Contains(t, v.Message, "connection refused")
	assert.NotContains(t, v.Message, "expected status")
	assert.False(t, v.Err().(*Failure).IsAssertion())
}

func TestVerifyNilResponse(t *testing.T) {
	v := Verify(nil, Expectation{})
	assert.Equal(t, TransportFailure, v.Kind)
}

func TestVerifyIsIdempotent(t *testing.T) {
	resp := &probe.Response{StatusCode: 200, Body: "Goodbye"}
	expect := Expectation{BodyContains: greeting}
	assert.Equal(t, Verify(resp, expect), Verify(resp, expect))
	assert.Equal(t, "Goodbye", resp.Body)
}

func TestScenarios(t *testing.T) {
	t.Run("B: passes", func(t *testing.T) {
		v := fetchAndVerify(t, 200, greeting+" Extra text.")
		assert.True(t, v.Passed)
	})

	t.Run("C: status mismatch", func(t *testing.T) {
		v := fetchAndVerify(t, 404, "")
		assert.False(t, v.Passed)
		assert.Contains(t, v.Message, "404")
		assert.Contains(t, v.Message, "200")
	})

	t.Run("D: body mismatch", func(t *testing.T) {
		v := fetchAndVerify(t, 200, "Goodbye")
		assert.False(t, v.Passed)
		assert.Contains(t, v.Message, "Goodbye")
	})

	t.Run("E: unreachable", func(t *testing.T) {
		port, err := freeport.GetFreePort()
		require.NoError(t, err)

		p := probe.New(probe.Options{})
		resp, err := p.Fetch(context.Background(), fmt.Sprintf("http://127.0.0.1:%d/myapp/servlet", port))
		require.NoError(t, err)

		v := Verify(resp, Expectation{BodyContains: greeting})
		assert.False(t, v.Passed)
		assert.Equal(t, TransportFailure, v.Kind)
		assert.Contains(t, v.Message, "connection refused")
		assert.Equal(t, int64(0), p.OpenBodies())
		assert.Equal(t, int64(0), p.OpenConns())
	})
}

func fetchAndVerify(t *testing.T, status int, body string) Verdict {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := probe.New(probe.Options{})
	resp, err := p.Fetch(context.Background(), srv.URL+"/myapp/servlet")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.OpenBodies())

	return Verify(resp, Expectation{Status: 200, BodyContains: greeting})
}
