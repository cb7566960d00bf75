package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/store"
	"github.com/tranvictor/ensgraph/ui"
)

var edgesYes bool

// withEdges opens the configured edge stores for the duration of fn.
func withEdges(cmd *cobra.Command, fn func(e *edges) error) error {
	e, err := openEdges(cmd.Context(), appConfig, appLogger)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func listEdges(u ui.UI, sink graph.EdgeSink) {
	list := sink.List()
	if len(list) == 0 {
		u.Warn("You have no custom connections yet")
		return
	}
	rows := make([][]string, 0, len(list))
	for i, e := range list {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), e.A, e.B})
	}
	u.Table([]string{"#", "From", "To"}, rows)
}

func addEdge(u ui.UI, sink graph.EdgeSink, a, b string) error {
	e := graph.NewEdge(a, b)
	switch err := sink.Add(e); {
	case errors.Is(err, store.ErrSelfLoop):
		return fmt.Errorf(`cannot connect "%s" to itself`, e.A)
	case errors.Is(err, store.ErrDuplicateEdge):
		return fmt.Errorf("connection already exists between %s and %s", e.A, e.B)
	case err != nil:
		return err
	}
	u.Success("Connected %s", e)
	return nil
}

func removeEdge(u ui.UI, sink graph.EdgeSink, a, b string) error {
	e := graph.NewEdge(a, b)
	if !sink.Remove(e) {
		return fmt.Errorf("%s is not one of your custom connections", e)
	}
	u.Success("Removed %s", e)
	return nil
}

// chooseEdge asks which custom connection to act on.
func chooseEdge(u ui.UI, sink graph.EdgeSink) (graph.Edge, bool) {
	list := sink.List()
	if len(list) == 0 {
		u.Warn("You have no custom connections yet")
		return graph.Edge{}, false
	}
	options := make([]string, 0, len(list))
	for _, e := range list {
		options = append(options, e.String())
	}
	return list[u.Choose("Which connection do you want to remove?", options)], true
}

// clearEdges empties the local store, asking first unless yes is set.
func clearEdges(u ui.UI, local *store.Local, yes bool) {
	n := len(local.List())
	if n == 0 {
		u.Warn("You have no custom connections yet")
		return
	}
	if !yes {
		u.Critical("This removes all %d custom connections stored on this machine", n)
		if !u.Confirm("Remove all your custom connections?", false) {
			u.Info("Nothing removed")
			return
		}
	}
	local.Clear()
	u.Success("All custom connections removed")
}

func reportSync(u ui.UI, verb string, res store.SyncResult) {
	u.KeyValue([][2]string{
		{verb, fmt.Sprintf("%d", res.Synced)},
		{"Skipped", fmt.Sprintf("%d", res.Skipped)},
		{"Failed", fmt.Sprintf("%d", res.Failed)},
	})
	if res.Failed > 0 {
		u.Warn("Some connections failed to sync, see the logs for details")
	}
}

func pushEdges(ctx context.Context, u ui.UI, local *store.Local, remote store.Remote) {
	reportSync(u, "Pushed", store.Push(ctx, local, remote))
}

func pullEdges(ctx context.Context, u ui.UI, local *store.Local, remote store.Remote) {
	reportSync(u, "Pulled", store.Pull(ctx, local, remote))
}

var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "Manage your custom connections between ENS names",
	Long: `Custom connections are kept locally in the configured storage backend. When a
remote friendships table is configured, adding and removing also updates it;
push and pull copy everything across.`,
}

var edgesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your custom connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			listEdges(appUI, e)
			return nil
		})
	},
}

var edgesAddCmd = &cobra.Command{
	Use:   "add <name1> <name2>",
	Short: "Connect two ENS names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			return addEdge(appUI, e, args[0], args[1])
		})
	},
}

var edgesRemoveCmd = &cobra.Command{
	Use:     "remove [<name1> <name2>]",
	Aliases: []string{"rm"},
	Short:   "Remove a custom connection in either direction",
	Long:    `Without arguments, pick the connection to remove from a list.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts 0 or 2 names, received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			if len(args) == 2 {
				return removeEdge(appUI, e, args[0], args[1])
			}
			edge, ok := chooseEdge(appUI, e)
			if !ok {
				return nil
			}
			return removeEdge(appUI, e, edge.A, edge.B)
		})
	},
}

var edgesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every local custom connection",
	Long:  `Clears the local store only. The remote friendships table is left untouched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			clearEdges(appUI, e.Local, edgesYes)
			return nil
		})
	},
}

var edgesPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy local custom connections to the remote friendships table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			pushEdges(cmd.Context(), appUI, e.Local, e.remote())
			return nil
		})
	},
}

var edgesPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Copy remote friendships missing locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEdges(cmd, func(e *edges) error {
			pullEdges(cmd.Context(), appUI, e.Local, e.remote())
			return nil
		})
	},
}

func init() {
	edgesClearCmd.Flags().BoolVarP(&edgesYes, "yes", "y", false, "don't ask for confirmation")
	edgesCmd.AddCommand(edgesListCmd, edgesAddCmd, edgesRemoveCmd, edgesClearCmd, edgesPushCmd, edgesPullCmd)
	rootCmd.AddCommand(edgesCmd)
}
