package main

import (
	"boscoin.io/roster/cmd/roster/cmd"
)

func main() {
	cmd.Execute()
}
