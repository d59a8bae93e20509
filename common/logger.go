// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

// LoggerName is the go-log subsystem used by every package in this module.
const LoggerName = "dlog-zkp"

var Logger = logging.Logger(LoggerName)
