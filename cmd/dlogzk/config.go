// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

// fileConfig is the TOML configuration file. Flags given on the command line take precedence.
//
//	rounds = 40
//	concurrency = 4
//
//	[group]
//	p = "234234163"
//	g = "2"
type fileConfig struct {
	Rounds       int       `toml:"rounds"`
	SecurityBits int       `toml:"security_bits"`
	Concurrency  int       `toml:"concurrency"`
	Group        groupTOML `toml:"group"`
}

// groupTOML holds p and g as decimal or 0x-prefixed hexadecimal strings.
type groupTOML struct {
	P string `toml:"p"`
	G string `toml:"g"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	conf := new(fileConfig)
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in config %s: %v", path, undecoded)
	}
	return conf, nil
}

// params returns the configured group, or the demonstration group when none is set.
func (conf *fileConfig) params() (*group.Params, error) {
	if conf == nil || (conf.Group.P == "" && conf.Group.G == "") {
		return group.ToyParams(), nil
	}
	if conf.Group.P == "" || conf.Group.G == "" {
		return nil, errors.Wrap(group.ErrInvalidParams, "both p and g must be configured")
	}
	return group.ParseParams(conf.Group.P, conf.Group.G)
}
