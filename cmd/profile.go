package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/ui"
)

type profileOptions struct {
	JSON    bool
	Verbose bool
	// Candidates are the names suggested when a name is not found.
	Candidates []string
}

var profileOpts profileOptions

var profileCmd = &cobra.Command{
	Use:   "profile <name>...",
	Short: "Resolve ENS names into full profiles",
	Long: `Resolve one or more ENS names. For each name you get exactly one of: its
profile, a not found notice when it has no resolver, or the error that stopped
the resolution. Records the resolver doesn't support or doesn't set are left
out; --verbose shows why each one is missing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := profileOpts
		if e, err := openEdges(cmd.Context(), appConfig, appLogger); err == nil {
			opts.Candidates = graph.Build(nil, e.List()).NodeNames()
			e.Close()
		}
		return showProfiles(cmd.Context(), appUI, resolver(), args, opts)
	},
}

func showProfiles(ctx context.Context, u ui.UI, r ens.ProfileResolver, names []string, opts profileOptions) error {
	profiles := []ens.Profile{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			u.Warn("Please enter an ENS name")
			continue
		}
		stop := func() {}
		if !opts.JSON {
			stop = u.Spinner(fmt.Sprintf("Resolving %s", name))
		}
		p := r.Resolve(ctx, name)
		stop()
		profiles = append(profiles, p)
		if opts.JSON {
			continue
		}
		renderProfile(u, p, opts.Verbose)
		if p.Outcome() == ens.OutcomeNotFound {
			suggest(u, name, opts.Candidates)
		}
	}
	if opts.JSON {
		enc := json.NewEncoder(u.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}
	return nil
}

func init() {
	profileCmd.Flags().BoolVar(&profileOpts.JSON, "json", false, "print profiles as JSON")
	profileCmd.Flags().BoolVarP(&profileOpts.Verbose, "verbose", "v", false, "show the status of every record lookup")
	rootCmd.AddCommand(profileCmd)
}
