package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/gobacklog/internal/cli"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
