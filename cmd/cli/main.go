// logstat - Log Statistics Tool
//
// logstat parses log files and reports counts by level, component and hour,
// error rate and the period covered.
package main

import (
	"os"

	"github.com/ccollicutt/logstat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
