// Command reviewlens categorizes product reviews from a JSONL file and
// prints analysis results, ranked insights and cross-dimension
// correlations as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
