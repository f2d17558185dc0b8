package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/roster/cmd/roster/common"
	"boscoin.io/roster/lib/client"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/operation"
)

var (
	operationCmd *cobra.Command

	flagOperationSecretSeed string
	flagOperationNetworkID  string
	flagOperationEndpoint   string
	flagOperationFormat     string
)

func init() {
	operationCmd = &cobra.Command{
		Use:   "operation <type> <body json>",
		Short: "Sign an operation and optionally submit it",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			op, err := makeOperation(args[0], args[1], flagOperationSecretSeed, flagOperationNetworkID)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			if _, ok := cmdcommon.DefaultEncoders[flagOperationFormat]; !ok {
				cmdcommon.PrintFlagsError(c, "--format", fmt.Errorf("expected one of %s", cmdcommon.DefaultEncoders.Formats()))
			}

			// without endpoint the signed operation is printed
			var out interface{} = op
			if len(flagOperationEndpoint) > 0 {
				if out, err = submitOperation(flagOperationEndpoint, op); err != nil {
					fmt.Fprintf(os.Stderr, "error: %s\n", err)
					os.Exit(1)
				}
			}

			if err := cmdcommon.DefaultEncoders.Encode(flagOperationFormat, out, os.Stdout); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}

	operationCmd.Flags().StringVar(&flagOperationSecretSeed, "secret-seed", os.Getenv("ROSTER_SECRET_SEED"), "secret seed of the caller")
	operationCmd.Flags().StringVar(&flagOperationNetworkID, "network-id", os.Getenv("ROSTER_NETWORK_ID"), "network id")
	operationCmd.Flags().StringVar(&flagOperationEndpoint, "endpoint", "", "submit to this node, ex) https://localhost:12345")
	operationCmd.Flags().StringVar(&flagOperationFormat, "format", "prettyjson", "format="+cmdcommon.DefaultEncoders.Formats())

	rootCmd.AddCommand(operationCmd)
}

func makeOperation(opType, body, seed, networkID string) (op operation.Operation, err error) {
	if len(networkID) < 1 {
		err = errors.New("--network-id must be given")
		return
	}

	var kp keypair.KP
	if kp, err = keypair.Parse(seed); err != nil {
		err = fmt.Errorf("invalid --secret-seed: %v", err)
		return
	} else if _, ok := kp.(*keypair.Full); !ok {
		err = errors.New("--secret-seed is not a secret seed")
		return
	}

	var opb operation.Body
	if opb, err = operation.UnmarshalBodyJSON(operation.OperationType(opType), []byte(body)); err != nil {
		return
	}
	if op, err = operation.NewOperation(kp.Address(), opb); err != nil {
		return
	}
	err = op.Sign(kp, []byte(networkID))

	return
}

func submitOperation(endpoint string, op operation.Operation) (result client.OperationResult, err error) {
	var c *client.Client
	if c, err = client.NewClient(endpoint); err != nil {
		return
	}
	defer c.Close()

	var b []byte
	if b, err = json.Marshal(op); err != nil {
		return
	}

	return c.SubmitOperation(b)
}
