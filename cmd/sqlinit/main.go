// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command sqlinit runs SQL script initialization against a datastore.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sqlinit: %v\n", err)
		os.Exit(1)
	}
}
