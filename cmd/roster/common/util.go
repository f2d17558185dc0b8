package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

// PrintFlagsError prints the usage of `cmd` after the error, then exits.
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	exitWithHelp(cmd, fmt.Sprintf("invalid '%s'; %s", flagName, ErrorString(err)), err != nil)
}

func PrintError(cmd *cobra.Command, err error) {
	exitWithHelp(cmd, ErrorString(err), err != nil)
}

func exitWithHelp(cmd *cobra.Command, message string, show bool) {
	if show {
		fmt.Fprintf(os.Stderr, "error: %s\n\n", message)
	}
	cmd.Help()

	os.Exit(1)
}

// ErrorString shows the data of roster errors, like the limit of a
// "capacity exceeded".
func ErrorString(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}
	if len(e.Data) < 1 {
		return e.Message
	}

	return fmt.Sprintf("%s %v", e.Message, e.Data)
}

var amountSeparators = strings.NewReplacer(",", "", ".", "", "_", "")

// ParseAmountFromString reads a whole number of the smallest unit. ',', '.'
// and '_' are digit separators, never decimal points: "1_000.000" is
// 1000000.
func ParseAmountFromString(input string) (common.Amount, error) {
	return common.AmountFromString(amountSeparators.Replace(input))
}

// ListFlags collects every value of a repeated flag.
type ListFlags []string

func (i *ListFlags) Type() string {
	return "list"
}

func (i *ListFlags) String() string {
	return strings.Join(*i, " ")
}

func (i *ListFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
