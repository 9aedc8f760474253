package main

import (
	"fmt"
	"os"

	// Procedures register themselves with the transformation registry
	_ "github.com/arthur-debert/uplift/pkg/transform"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "uplift: %v\n", err)
		os.Exit(1)
	}
}
