package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/roster/cmd/roster/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/roster"
)

var idCmd *cobra.Command

func init() {
	idCmd = &cobra.Command{
		Use:   "id <founder> <title>",
		Short: "Print the roster id of a founder and title",
		Args:  cobra.MinimumNArgs(2),
		Run: func(c *cobra.Command, args []string) {
			if !keypair.IsAddress(args[0]) {
				cmdcommon.PrintFlagsError(c, "<founder>", errors.New("not a public address"))
			}

			fmt.Println(roster.NewRosterID(args[0], strings.Join(args[1:], " ")).String())
		},
	}

	rootCmd.AddCommand(idCmd)
}
