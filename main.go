// main.go
//
// Entry point; the Cobra commands live in cmd/.

package main

import (
	"github.com/portsim/portsim/cmd"
)

func main() {
	cmd.Execute()
}
