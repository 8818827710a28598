// sapling runs the transform demo rig in a window, benchmarks joint
// hierarchy updates headlessly, or dumps the resolved rig.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
