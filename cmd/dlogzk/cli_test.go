// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	prev := output
	output = buf
	defer func() { output = prev }()
	err := CLI().Run(append([]string{"dlogzk"}, args...))
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dlogzk.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDemo(t *testing.T) {
	out, err := runCLI(t, "demo", "--secret", "12345", "--rounds", "48", "--concurrency", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "group p: 234234163, g: 2")
	assert.Contains(t, out, "[local #0] secret key x: 12345")
	assert.Contains(t, out, "[local #0] public key y = g^x mod p: 166103576")
	assert.Contains(t, out, "48/48 rounds verified, accepted: true")
	assert.Contains(t, out, "wrong secret x+1 = 12346")
	assert.Contains(t, out, "accepted: false")
	assert.Contains(t, out, "failed rounds:")
}

func TestDemoSingleRoundSoundnessGap(t *testing.T) {
	dir := t.TempDir()
	// every read starts over: r = 5 from the first four bytes, b from the first byte
	zero := filepath.Join(dir, "b0")
	require.NoError(t, os.WriteFile(zero, []byte{0x00, 0x00, 0x00, 0x05}, 0600))
	one := filepath.Join(dir, "b1")
	require.NoError(t, os.WriteFile(one, []byte{0x01, 0x00, 0x00, 0x05}, 0600))

	out, err := runCLI(t, "demo", "--secret", "12345", "--entropy-file", zero)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "1/1 rounds verified, accepted: true"))
	assert.Contains(t, out, "round 0: verification with the wrong secret succeeded (BAD!)")
	assert.Contains(t, out, "known soundness gap of a single round")

	out, err = runCLI(t, "demo", "--secret", "12345", "--entropy-file", one)
	require.NoError(t, err)
	assert.Contains(t, out, "0/1 rounds verified, accepted: false")
	assert.NotContains(t, out, "BAD!")
}

func TestDemoMetrics(t *testing.T) {
	out, err := runCLI(t, "demo", "--secret", "0x3039", "--rounds", "2", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "secret key x: 12345")
	assert.Contains(t, out, "dlogzk_proofs_generated_total 4")
}

func TestDemoSecurityBits(t *testing.T) {
	out, err := runCLI(t, "demo", "--security-bits", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "20/20 rounds verified, accepted: true")

	_, err = runCLI(t, "demo", "--security-bits", "20", "--rounds", "3")
	assert.Error(t, err)
	_, err = runCLI(t, "demo", "--security-bits", "0")
	assert.Error(t, err)
}

func TestDemoConfigFile(t *testing.T) {
	path := writeConfig(t, `
rounds = 3
concurrency = 2

[group]
p = "0xdf62133"
g = "3"
`)
	out, err := runCLI(t, "demo", "--config", path, "--secret", "12345")
	require.NoError(t, err)
	assert.Contains(t, out, "group p: 234234163, g: 3")
	assert.Contains(t, out, "public key y = g^x mod p: 216998664")
	assert.Contains(t, out, "3/3 rounds verified, accepted: true")

	// flags win over the file
	out, err = runCLI(t, "demo", "--config", path, "--secret", "12345", "--rounds", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "5/5 rounds verified")
}

func TestDemoBadConfig(t *testing.T) {
	_, err := runCLI(t, "demo", "--config", writeConfig(t, "[group]\np = \"15\"\ng = \"2\"\n"))
	assert.Error(t, err, "composite modulus")

	_, err = runCLI(t, "demo", "--config", writeConfig(t, "[group]\np = \"234234163\"\n"))
	assert.Error(t, err, "g missing")

	_, err = runCLI(t, "demo", "--config", writeConfig(t, "roundz = 3\n"))
	assert.Error(t, err, "unknown key")

	_, err = runCLI(t, "demo", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = runCLI(t, "demo", "--secret", "not-a-number")
	assert.Error(t, err)

	_, err = runCLI(t, "demo", "--secret", "-5")
	assert.Error(t, err)
}

func TestDemoEntropyFile(t *testing.T) {
	_, err := runCLI(t, "demo", "--entropy-file", filepath.Join(t.TempDir(), "no-such-device"))
	assert.Error(t, err)

	if _, statErr := os.Stat("/dev/urandom"); statErr != nil {
		t.Skip("no /dev/urandom")
	}
	out, err := runCLI(t, "demo", "--entropy-file", "/dev/urandom", "--rounds", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "4/4 rounds verified, accepted: true")
}

func TestSession(t *testing.T) {
	out, err := runCLI(t, "session", "--secret", "12345", "--rounds", "6", "--session", "test-session")
	require.NoError(t, err)
	assert.Contains(t, out, "[verifier #5] verification successful")
	assert.Contains(t, out, "session test-session: 6/6 rounds verified, accepted: true")
	assert.Contains(t, out, "prover was told: accepted = true")
	assert.NotContains(t, out, "secret key")
}

func TestSessionWrongKey(t *testing.T) {
	out, err := runCLI(t, "session", "--secret", "12346", "--public-key", "166103576", "--rounds", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted: false")
	assert.Contains(t, out, "prover was told: accepted = false")
}

func TestSessionBadPublicKey(t *testing.T) {
	_, err := runCLI(t, "session", "--public-key", "0")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	out, err := runCLI(t, "batch", "--secret", "12345", "--security-bits", "64", "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "batch proof: 64 rounds")
	assert.Contains(t, out, "verified: true")
	assert.Contains(t, out, "verified under another session: false")
}

func TestSimulate(t *testing.T) {
	out, err := runCLI(t, "simulate", "--public-key", "166103576", "--count", "4")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "verification successful"))
	assert.NotContains(t, out, "verification failed")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "[simulator #3]")

	out, err = runCLI(t, "simulate")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "verification successful"))

	_, err = runCLI(t, "simulate", "--public-key", "234234163")
	assert.Error(t, err)
}
