// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// dlogzk demonstrates the interactive zero-knowledge proof of knowledge of a discrete logarithm.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := CLI().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dlogzk: %v\n", err)
		os.Exit(1)
	}
}
