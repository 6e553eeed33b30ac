// Command livehooks runs the widget hooks of an HTML page outside a browser.
package main

import (
	"os"

	"github.com/go-drift/livehooks/cmd/livehooks/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
