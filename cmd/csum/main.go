// Copyright © 2026 Csum Authors

package main

import (
	"github.com/csum-io/csum/cmd/csum/cmd"
)

func main() {
	cmd.Execute()
}
