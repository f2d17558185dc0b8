package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/roster/cmd/roster/common"
	"boscoin.io/roster/lib/common/keypair"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type keyPair struct {
	Seed    string `json:"seed" yaml:"seed"`
	Address string `json:"address" yaml:"address"`
}

func defaultEncode(v interface{}, w io.Writer) error {
	t := template.Must(template.New("").Parse(`   Secret Seed: {{ .Seed }}
Public Address: {{ .Address }}
`))
	return t.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var encoders = common.DefaultEncoders.
	With("default", defaultEncode).
	With("oneline", onelineEncode)

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<secret seed>]",
		Short: "Generate keypair",
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))

			if flagParse && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			kp, err := generateKP(input, flagParse)
			if err != nil {
				common.PrintFlagsError(c, "<input>", fmt.Errorf("failed to parse secret seed: %v", err))
			}

			if _, ok := encoders[flagFormat]; !ok {
				common.PrintFlagsError(c, "--format", fmt.Errorf("expected one of %s", encoders.Formats()))
			}

			if err := encoders.Encode(flagFormat, keyPair{Seed: kp.Seed(), Address: kp.Address()}, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format="+encoders.Formats())
}

func generateKP(seed string, fromSeed bool) (full *keypair.Full, err error) {
	if !fromSeed {
		return keypair.RandomCanFail()
	}

	var kp keypair.KP
	if kp, err = keypair.Parse(seed); err != nil {
		return
	}

	var ok bool
	if full, ok = kp.(*keypair.Full); !ok {
		err = errors.New("not a secret seed")
	}

	return
}
