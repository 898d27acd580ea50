// Command quotectl builds and renders quotes from a local workbook exported from the price sheet.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
