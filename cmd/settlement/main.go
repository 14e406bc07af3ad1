package main

import (
	"github.com/tokenized/settlement/cmd/settlement/cmd"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	buildUser    = "unknown"
)

// Settlement CLI
//
func main() {
	cmd.Execute(buildVersion, buildDate, buildUser)
}
