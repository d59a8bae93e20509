// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package main

import (
	"fmt"
	"io"
	"math/big"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
	"github.com/bnb-chain/dlog-zkp/protocol"
)

// Automatically set through -ldflags
// Example: go install -ldflags "-X main.version=`git describe --tags` -X main.gitCommit=`git rev-parse HEAD`"
var (
	version   = "master"
	gitCommit = "none"
)

var output io.Writer = os.Stdout

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, verbosity is at the debug level",
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "TOML file with the group parameters ([group] p, g), rounds and concurrency.",
}

var secretFlag = &cli.StringFlag{
	Name:  "secret",
	Usage: "Secret exponent x, decimal or 0x-prefixed hex. A random x in [0, p-1) is drawn when omitted.",
}

var publicKeyFlag = &cli.StringFlag{
	Name:  "public-key",
	Usage: "Public key y to test, decimal or 0x-prefixed hex.",
}

var roundsFlag = &cli.IntFlag{
	Name:  "rounds",
	Usage: "Number of independent rounds that must all verify.",
}

var securityBitsFlag = &cli.IntFlag{
	Name:  "security-bits",
	Usage: "Run enough rounds for a soundness error of 2^-bits. Cannot be combined with --rounds.",
}

var concurrencyFlag = &cli.IntFlag{
	Name:  "concurrency",
	Usage: "Number of workers running rounds in parallel.",
}

var entropyFileFlag = &cli.StringFlag{
	Name:  "entropy-file",
	Usage: "Read randomness from this device (e.g. /dev/urandom) instead of the system CSPRNG.",
}

var sessionFlag = &cli.StringFlag{
	Name:  "session",
	Usage: "Session id. A random UUID is used when omitted.",
}

var countFlag = &cli.IntFlag{
	Name:  "count",
	Usage: "Number of simulated transcripts to print.",
	Value: 3,
}

var metricsFlag = &cli.BoolFlag{
	Name:  "metrics",
	Usage: "Print the protocol counters when done.",
}

var groupFlags = []cli.Flag{configFlag, entropyFileFlag}
var runFlags = append([]cli.Flag{secretFlag, roundsFlag, securityBitsFlag, sessionFlag, metricsFlag}, groupFlags...)

var appCommands = []*cli.Command{
	{
		Name:   "demo",
		Usage:  "Prove knowledge of x locally, then show that x+1 only passes the rounds challenged with b = 0.",
		Flags:  append([]cli.Flag{concurrencyFlag}, runFlags...),
		Action: demoCmd,
	},
	{
		Name:   "session",
		Usage:  "Run a prover and a verifier as two parties exchanging framed messages over a connection.",
		Flags:  append([]cli.Flag{publicKeyFlag}, runFlags...),
		Action: sessionCmd,
	},
	{
		Name:   "batch",
		Usage:  "Create and check a non-interactive proof with hash-derived challenges.",
		Flags:  runFlags,
		Action: batchCmd,
	},
	{
		Name:   "simulate",
		Usage:  "Print transcripts that verify for y without any knowledge of x.",
		Flags:  append([]cli.Flag{publicKeyFlag, countFlag}, groupFlags...),
		Action: simulateCmd,
	},
}

// CLI runs the dlogzk app
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "dlogzk"
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(output, "dlogzk %v (commit %v)\n", version, gitCommit)
	}
	app.ExitErrHandler = func(context *cli.Context, err error) {
		// override to prevent default behavior of calling OS.exit(1),
		// when tests expect to be able to run multiple commands.
	}
	app.Version = version
	app.Usage = "zero-knowledge proof of knowledge of a discrete logarithm"
	app.Commands = appCommands
	app.Flags = []cli.Flag{verboseFlag}
	app.Before = func(c *cli.Context) error {
		level := "warning"
		if c.Bool(verboseFlag.Name) {
			level = "debug"
		}
		return logging.SetLogLevel(common.LoggerName, level)
	}
	return app
}

type setup struct {
	params *group.Params
	cfg    protocol.Config
	reg    *prometheus.Registry
}

// contextToSetup merges the config file and the flags; flags win.
func contextToSetup(c *cli.Context) (*setup, error) {
	var conf *fileConfig
	if c.IsSet(configFlag.Name) {
		var err error
		if conf, err = loadFileConfig(c.String(configFlag.Name)); err != nil {
			return nil, err
		}
	}
	params, err := conf.params()
	if err != nil {
		return nil, err
	}

	cfg := protocol.DefaultConfig()
	if conf != nil {
		if conf.Rounds > 0 && conf.SecurityBits > 0 {
			return nil, errors.New("config sets both rounds and security_bits")
		}
		if conf.Rounds > 0 {
			cfg.Rounds = conf.Rounds
		}
		if conf.SecurityBits > 0 {
			cfg.Rounds = dlogproof.RoundsForSecurity(conf.SecurityBits)
		}
		if conf.Concurrency > 0 {
			cfg.Concurrency = conf.Concurrency
		}
	}
	if c.IsSet(roundsFlag.Name) && c.IsSet(securityBitsFlag.Name) {
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", roundsFlag.Name, securityBitsFlag.Name)
	}
	if c.IsSet(roundsFlag.Name) {
		cfg.Rounds = c.Int(roundsFlag.Name)
	}
	if c.IsSet(securityBitsFlag.Name) {
		if bits := c.Int(securityBitsFlag.Name); bits > 0 {
			cfg.Rounds = dlogproof.RoundsForSecurity(bits)
		} else {
			return nil, fmt.Errorf("--%s must be positive", securityBitsFlag.Name)
		}
	}
	if c.IsSet(concurrencyFlag.Name) {
		cfg.Concurrency = c.Int(concurrencyFlag.Name)
	}
	if c.IsSet(sessionFlag.Name) {
		cfg.SessionID = c.String(sessionFlag.Name)
	}
	if c.IsSet(entropyFileFlag.Name) {
		cfg.Rand = common.NewFileReader(c.String(entropyFileFlag.Name))
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := protocol.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	cfg.Metrics = metrics
	return &setup{params: params, cfg: cfg, reg: reg}, nil
}

func (s *setup) secret(c *cli.Context) (*big.Int, error) {
	if !c.IsSet(secretFlag.Name) {
		return common.GetRandomIntBelow(s.cfg.Rand, s.params.Order())
	}
	x, err := parseInt(c.String(secretFlag.Name), "secret")
	if err != nil {
		return nil, err
	}
	if x.Sign() < 0 {
		return nil, dlogproof.ErrInvalidSecret
	}
	return x, nil
}

func parseInt(str, what string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(str), 0)
	if !ok {
		return nil, fmt.Errorf("cannot parse %s %q", what, str)
	}
	return v, nil
}

func demoCmd(c *cli.Context) error {
	s, err := contextToSetup(c)
	if err != nil {
		return err
	}
	x, err := s.secret(c)
	if err != nil {
		return err
	}
	y := s.params.PublicKey(x)
	fmt.Fprintf(output, "group %s\n", s.params)

	cfg := s.cfg
	cfg.Reporter = protocol.NewWriterReporter(output)
	res, err := protocol.RunLocal(c.Context, cfg, s.params, x, y)
	if err != nil {
		return err
	}
	printResult(res)

	fakeX := new(big.Int).Add(x, big.NewInt(1))
	fmt.Fprintf(output, "\nproving knowledge of y with the wrong secret x+1 = %v\n", fakeX)
	cfg.SessionID = uuid.New().String()
	res, err = protocol.RunLocal(c.Context, cfg, s.params, fakeX, y)
	if err != nil {
		return err
	}
	printResult(res)
	for i, tr := range res.Rounds {
		if tr.Verified && tr.Proof.B == 0 {
			fmt.Fprintf(output, "round %d: verification with the wrong secret succeeded (BAD!): "+
				"b = 0 only proves knowledge of log(h); this is the known soundness gap of a single round\n", i)
		}
	}
	return s.printMetrics(c)
}

func sessionCmd(c *cli.Context) error {
	s, err := contextToSetup(c)
	if err != nil {
		return err
	}
	x, err := s.secret(c)
	if err != nil {
		return err
	}
	prover, err := dlogproof.NewProver(s.params, x, s.cfg.Rand)
	if err != nil {
		return err
	}
	var y *big.Int
	if c.IsSet(publicKeyFlag.Name) {
		if y, err = parseInt(c.String(publicKeyFlag.Name), "public key"); err != nil {
			return err
		}
	}

	c1, c2 := net.Pipe()
	proverConn, verifierConn := protocol.NewStreamConn(c1), protocol.NewStreamConn(c2)
	defer proverConn.Close()
	defer verifierConn.Close()

	vcfg := s.cfg
	vcfg.Reporter = protocol.NewWriterReporter(output)
	var (
		accepted bool
		res      *protocol.Result
	)
	eg, ctx := errgroup.WithContext(c.Context)
	eg.Go(func() error {
		var err error
		if accepted, err = protocol.RunProver(ctx, proverConn, prover, s.cfg); err != nil {
			// unblocks the verifier
			proverConn.Close()
			return errors.Wrap(err, "prover")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if res, err = protocol.RunVerifier(ctx, verifierConn, s.params, y, vcfg); err != nil {
			verifierConn.Close()
			return errors.Wrap(err, "verifier")
		}
		return nil
	})
	if err = eg.Wait(); err != nil {
		return err
	}
	printResult(res)
	fmt.Fprintf(output, "prover was told: accepted = %v\n", accepted)
	return s.printMetrics(c)
}

func batchCmd(c *cli.Context) error {
	s, err := contextToSetup(c)
	if err != nil {
		return err
	}
	x, err := s.secret(c)
	if err != nil {
		return err
	}
	y := s.params.PublicKey(x)
	session := []byte(s.cfg.SessionID)
	bp, err := dlogproof.NewBatchProof(x, s.params, s.cfg.Rounds, session, s.cfg.Rand)
	if err != nil {
		return err
	}
	parts, err := bp.Serialize()
	if err != nil {
		return err
	}
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	fmt.Fprintf(output, "group %s\n", s.params)
	fmt.Fprintf(output, "public key y = g^x mod p: %v\n", y)
	fmt.Fprintf(output, "batch proof: %d rounds, %d bytes, session %s\n", bp.Rounds(), size, s.cfg.SessionID)
	fmt.Fprintf(output, "verified: %v\n", bp.Verify(y, s.params, session))
	fmt.Fprintf(output, "verified under another session: %v\n", bp.Verify(y, s.params, []byte(uuid.New().String())))
	return nil
}

func simulateCmd(c *cli.Context) error {
	var conf *fileConfig
	if c.IsSet(configFlag.Name) {
		var err error
		if conf, err = loadFileConfig(c.String(configFlag.Name)); err != nil {
			return err
		}
	}
	params, err := conf.params()
	if err != nil {
		return err
	}
	var rand io.Reader
	if c.IsSet(entropyFileFlag.Name) {
		rand = common.NewFileReader(c.String(entropyFileFlag.Name))
	}
	var y *big.Int
	if c.IsSet(publicKeyFlag.Name) {
		if y, err = parseInt(c.String(publicKeyFlag.Name), "public key"); err != nil {
			return err
		}
	} else {
		// a key whose secret is dropped right away
		x, err := common.GetRandomIntBelow(rand, params.Order())
		if err != nil {
			return err
		}
		y = params.PublicKey(x)
	}

	reporter := protocol.NewWriterReporter(output)
	for i := 0; i < c.Int(countFlag.Name); i++ {
		pf, err := dlogproof.Simulate(y, params, rand)
		if err != nil {
			return err
		}
		tr := pf.Check(y, params)
		reporter.Report(&protocol.Record{
			Round:    i,
			Role:     protocol.RoleSimulator,
			Y:        y,
			H:        pf.H,
			B:        pf.B,
			S:        pf.S,
			Left:     tr.Left,
			Right:    tr.Right,
			Verified: tr.Verified,
		})
	}
	return nil
}

func printResult(res *protocol.Result) {
	fmt.Fprintf(output, "session %s: %d/%d rounds verified, accepted: %v (soundness error %g)\n",
		res.SessionID, res.Verified, len(res.Rounds), res.Accepted(), res.SoundnessError())
	if failed := res.FailedRounds(); len(failed) > 0 {
		fmt.Fprintf(output, "failed rounds: %v\n", failed)
	}
}

func (s *setup) printMetrics(c *cli.Context) error {
	if !c.Bool(metricsFlag.Name) {
		return nil
	}
	families, err := s.reg.Gather()
	if err != nil {
		return err
	}
	lines := make([]string, 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %v", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(output, strings.Join(lines, "\n"))
	return nil
}
