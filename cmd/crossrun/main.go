package main

import (
	"github.com/crossrun/crossrun/internal/cli"
	"github.com/crossrun/crossrun/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
