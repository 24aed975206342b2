// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Command marquee trains the recommender offline and queries it from the
// terminal. It reads the same configuration as the server; flags override it.
//
//	marquee train --data-dir ./ml-latest-small
//	marquee similar "Heat (1995)" -k 10
//	marquee search "toy story" --limit 5
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
