package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/query"
)

// PlanOutput is the JSON form of a query plan.
type PlanOutput struct {
	Plan     string         `json:"plan"`
	Strategy query.Strategy `json:"strategy"`
	Pushed   []string       `json:"pushed"`
	Residual []string       `json:"residual"`
}

// NewExplainCommand creates the explain command. It never touches the table.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "explain <entity> [attr=value ...]",
		Short: "Show the plan a filter would run with",
		Long: `Show the access strategy chosen for a filter, the predicates pushed down
to the store and the predicates applied after fetch.

Filters use the HTTP query syntax: attr=value for equality, attrMin=value and
attrMax=value for inclusive bounds.`,
		Example: `  lattice explain users company=Acme hostedEventCountMin=3
  lattice explain EMAIL status=sent --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req, err := a.filterRequest(args[0], args[1:])
			if err != nil {
				return err
			}
			req.Token = token

			plan, err := a.paginator(nil).Explain(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(PlanOutput{
					Plan:     plan.String(),
					Strategy: plan.Strategy,
					Pushed:   plan.Pushed(),
					Residual: plan.Residual.Attrs(),
				})
			}
			_, err = fmt.Fprintln(out, plan.String())
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "continuation token whose plan to show")

	return cmd
}
