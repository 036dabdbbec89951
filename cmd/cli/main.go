// Stackback - Stack Trace Source Mapping Tool
//
// Stackback rewrites the stack traces of errors captured from bundled
// JavaScript test runs back to original source positions, using the
// source maps of the bundles involved.
package main

import (
	"os"

	"github.com/stackbackhq/stackback/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
