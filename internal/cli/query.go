package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/api"
	"github.com/jacentio/lattice/query"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		limit    int
		token    string
		order    string
		all      bool
		maxPages int
	)

	cmd := &cobra.Command{
		Use:     "query <entity> [attr=value ...]",
		Short:   "Fetch filtered pages from the table",
		Example: `  lattice query events owner=8f14e45f startAtMin=2024-06-01 --limit 10 --all`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req, err := a.filterRequest(args[0], args[1:])
			if err != nil {
				return err
			}
			switch o := query.Order(order); o {
			case query.OrderDefault, query.OrderAsc, query.OrderDesc:
				req.Order = o
			default:
				return fmt.Errorf("invalid order %q: must be asc or desc", order)
			}
			req.Limit, req.Token = limit, token

			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			pager := a.paginator(s)
			out := cmd.OutOrStdout()

			for pages := 1; ; pages++ {
				page, err := pager.Page(cmd.Context(), req)
				if err != nil {
					return err
				}
				resp := api.NewResponse(page)

				if rootOpts.Format == "json" {
					if err := json.NewEncoder(out).Encode(resp); err != nil {
						return err
					}
				} else {
					for _, item := range resp.Items {
						b, err := json.Marshal(item)
						if err != nil {
							return err
						}
						fmt.Fprintln(out, string(b))
					}
					fmt.Fprintf(out, "# page %d: %d items, %d scanned in %d rounds, plan %s\n",
						pages, resp.Count, page.Scanned, page.Rounds, page.Plan.Strategy.ID())
					if resp.NextToken != nil {
						fmt.Fprintf(out, "# nextToken %s\n", *resp.NextToken)
					}
				}

				if !all || !resp.HasMore || (maxPages > 0 && pages >= maxPages) {
					return nil
				}
				req.Token = *resp.NextToken
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "items per page (0 uses the configured default)")
	cmd.Flags().StringVar(&token, "token", "", "continuation token to resume from")
	cmd.Flags().StringVar(&order, "order", "", "result order (asc|desc)")
	cmd.Flags().BoolVar(&all, "all", false, "follow continuation tokens until the data is exhausted")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages when --all is set (0 is unlimited)")

	return cmd
}
