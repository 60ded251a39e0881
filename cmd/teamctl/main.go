// Command teamctl inspects hierarchy snapshots offline and mints development
// tokens for the shared secret.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
