package fingerprint

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	core "github.com/chemstack/pugrest/pkg/core/compound"
	"github.com/chemstack/pugrest/pkg/model"
	"github.com/chemstack/pugrest/pkg/repo/pubchem"
)

func New() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:          "fingerprint <cid|hex>",
		Long:         "Decode the 881-bit CACTVS substructure fingerprint of a compound",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				bits, err := model.DecodeCACTVS(args[0])
				if err != nil {
					return err
				}
				fmt.Println(bits)
				return nil
			}

			cid, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("not a cid: %q", args[0])
			}
			svc, err := core.New(pubchem.New(nil))
			if err != nil {
				return err
			}
			defer svc.Close()

			c, err := svc.FromCID(cmd.Context(), uint32(cid))
			if err != nil {
				return err
			}
			bits, err := c.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Println(bits)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "hex", false, "argument is the raw base16 property value")
	return cmd
}
