// Command geodsolve is a command-line interface for solving geodesic
// problems on an ellipsoid.
package main

import (
	"fmt"
	"os"

	"github.com/geodesy-go/geodesic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
