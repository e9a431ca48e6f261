// ruinadex builds and queries the Library of Ruina search artifact.
package main

import (
	"os"

	"github.com/corey/ruinadex/cmd/ruinadex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
