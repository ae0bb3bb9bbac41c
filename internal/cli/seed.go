package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		counts seed.Counts
		rng    uint64
		rate   float64
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write synthetic users, events and email analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			items, err := seed.Generate(rng, counts).Items()
			if err != nil {
				return err
			}
			if dryRun {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "would write %d items to %s\n", len(items), a.config.Table.Name)
				return err
			}

			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			n, err := seed.NewWriter(s, rate, a.logger).Write(cmd.Context(), items)
			if err != nil {
				return fmt.Errorf("seeded %d of %d items: %w", n, len(items), err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", n, a.config.Table.Name)
			return err
		},
	}

	cmd.Flags().IntVar(&counts.Users, "users", 100, "number of users")
	cmd.Flags().IntVar(&counts.Events, "events", 50, "number of events")
	cmd.Flags().IntVar(&counts.Emails, "emails", 500, "number of email analytics records")
	cmd.Flags().Uint64Var(&rng, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&rate, "rate", 0, "writes per second (0 is unlimited)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate without writing")

	return cmd
}
