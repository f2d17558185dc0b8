// +build integration

package main

import (
	"os"
	"strings"
	"testing"

	"boscoin.io/roster/cmd/roster/cmd"
)

// Run the program as a test, filtering out the test arguments, so the
// integration runs produce coverage reports.
func TestIntegration(t *testing.T) {
	var filteredArgs []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") ||
			strings.HasPrefix(arg, "-httptest.") {
			continue
		}
		filteredArgs = append(filteredArgs, arg)
	}
	cmd.SetArgs(filteredArgs)
	main()
}
