package assay

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemstack/pugrest/pkg/repo"
	"github.com/chemstack/pugrest/pkg/repo/pubchem"
)

func New() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:          "assay <identifier>",
		Long:         "Look up assay descriptions by aid",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := pubchem.New(nil)
			assays, err := client.GetAssays(cmd.Context(), args[0], namespace)
			if err != nil {
				return err
			}
			for _, a := range assays {
				fmt.Printf("AID %d v%d.%d  %s\n", a.AID, a.Version, a.Revision, a.Name)
				for _, t := range a.Targets {
					fmt.Printf("  target: %s (%s)\n", t.Name, t.MoleculeType)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", repo.NamespaceAID, "identifier namespace")
	return cmd
}
