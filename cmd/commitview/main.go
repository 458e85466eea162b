// Command commitview views repository commits and diffs.
package main

import (
	"os"

	"github.com/kilupskalvis/commitview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
