package substance

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemstack/pugrest/pkg/repo"
	"github.com/chemstack/pugrest/pkg/repo/pubchem"
)

func New() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:          "substance <identifier>",
		Long:         "Look up substance records by sid, name or sourceid",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := pubchem.New(nil)
			subs, err := client.GetSubstances(cmd.Context(), args[0], namespace)
			if err != nil {
				return err
			}
			for _, s := range subs {
				line := fmt.Sprintf("SID %d  %s/%s", s.SID, s.SourceName, s.SourceID)
				if cid, ok := s.StandardizedCID(); ok {
					line += fmt.Sprintf("  standardized CID %d", cid)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", repo.NamespaceSID, "identifier namespace")
	return cmd
}
