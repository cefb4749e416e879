package compound

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	core "github.com/chemstack/pugrest/pkg/core/compound"
	"github.com/chemstack/pugrest/pkg/repo"
	"github.com/chemstack/pugrest/pkg/repo/pubchem"
)

func New() *cobra.Command {
	var namespace string
	var properties string
	var synonyms bool

	cmd := &cobra.Command{
		Use:          "compound <identifier>",
		Long:         "Look up compound records by cid, name, smiles, inchi, inchikey or formula",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := pubchem.New(nil)

			if properties != "" {
				rows, err := client.GetProperties(ctx, args[0], namespace, strings.Split(properties, ","))
				if err != nil {
					return err
				}
				for _, row := range rows {
					fmt.Printf("%+v\n", row)
				}
				return nil
			}

			svc, err := core.New(client)
			if err != nil {
				return err
			}
			defer svc.Close()

			compounds, err := svc.Lookup(ctx, args[0], namespace)
			if err != nil {
				return err
			}
			for _, c := range compounds {
				fmt.Printf("CID %d  %s  %s\n", c.CID(), c.MolecularFormula(), c.SMILES())
				if synonyms {
					syns, err := c.Synonyms(ctx)
					if err != nil {
						return err
					}
					for _, s := range syns {
						fmt.Println("  " + s)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", repo.NamespaceCID, "identifier namespace")
	cmd.Flags().StringVarP(&properties, "properties", "p", "", "comma-separated property table columns")
	cmd.Flags().BoolVar(&synonyms, "synonyms", false, "also list synonyms")
	return cmd
}
