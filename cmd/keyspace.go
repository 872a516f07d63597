package cmd

import (
	"fmt"

	"github.com/maxvaer/keycrack/internal/digest"
	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/maxvaer/keycrack/pkg/version"
	"github.com/spf13/cobra"
)

func newKeyspaceCmd() *cobra.Command {
	var at uint64
	var ordinalOf string

	c := &cobra.Command{
		Use:   "keyspace [mask]",
		Short: "Describe a keyspace: size, fingerprint and bounds",
		Example: `  keycrack keyspace three-initial
  keycrack keyspace A-Z,A-Z,00-99 --at 26108
  keycrack keyspace two-initial --ordinal-of KB07`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask := "two-initial"
			if len(args) == 1 {
				mask = args[0]
			}
			spec, err := keyspace.Parse(mask)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if cmd.Flags().Changed("at") {
				c, err := spec.At(at)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, c)
				return nil
			}
			if ordinalOf != "" {
				n, ok := spec.Ordinal(ordinalOf)
				if !ok {
					return fmt.Errorf("%q is not in keyspace %s", ordinalOf, spec)
				}
				fmt.Fprintln(w, n)
				return nil
			}

			first, _ := spec.At(1)
			last, _ := spec.At(spec.Size())
			fmt.Fprintf(w, "Keyspace:    %s\n", spec)
			fmt.Fprintf(w, "Candidates:  %d\n", spec.Size())
			fmt.Fprintf(w, "Fingerprint: %016x\n", spec.Fingerprint())
			fmt.Fprintf(w, "First:       %s\n", first)
			fmt.Fprintf(w, "Last:        %s\n", last)
			return nil
		},
	}
	c.Flags().Uint64Var(&at, "at", 0, "Print the candidate at this 1-based ordinal")
	c.Flags().StringVar(&ordinalOf, "ordinal-of", "", "Print the 1-based ordinal of this candidate")
	return c
}

func newHashCmd() *cobra.Command {
	var salt string

	c := &cobra.Command{
		Use:   "hash <plaintext>",
		Short: "Hash a plaintext into a target string",
		Example: `  keycrack hash KB07
  keycrack hash KB07 --salt '$5$KB$'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := target.Parse(salt)
			if err != nil {
				return fmt.Errorf("salt: %w", err)
			}
			h, err := digest.For(tg.Algorithm)
			if err != nil {
				return err
			}
			out, err := h.Hash(args[0], tg.Salt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	c.Flags().StringVar(&salt, "salt", "$6$KB$", "Salt prefix including the algorithm tag")
	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keycrack %s\n", version.Version)
		},
	}
}
