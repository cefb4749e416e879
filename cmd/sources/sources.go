package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemstack/pugrest/pkg/repo"
	"github.com/chemstack/pugrest/pkg/repo/pubchem"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sources [substance|assay]",
		Long:         "List all depositors of the substance or assay databases",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := repo.DomainSubstance
			if len(args) == 1 {
				domain = args[0]
			}
			client := pubchem.New(nil)
			names, err := client.GetSources(cmd.Context(), domain)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	return cmd
}
