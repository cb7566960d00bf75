package cmd

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/ui"
)

var (
	explorePairs   string
	exploreVerbose bool
)

// explorer is an interactive session over the graph editor. Profile
// searches run in the background and only the latest one is printed.
type explorer struct {
	ctx     context.Context
	u       ui.UI
	latest  *ens.Latest
	editor  *graph.Editor
	logger  *zap.Logger
	verbose bool

	wg sync.WaitGroup
}

func newExplorer(ctx context.Context, u ui.UI, r ens.ProfileResolver, sink graph.EdgeSink, pairs []graph.Edge) *explorer {
	editor := graph.NewEditor(sink)
	editor.SetPairs(pairs)
	return &explorer{
		ctx:    ctx,
		u:      u,
		latest: ens.NewLatest(r),
		editor: editor,
		logger: zap.NewNop(),
	}
}

func (x *explorer) help() {
	x.u.Info("Type an ENS name to look it up. Commands:")
	x.u.Indent().KeyValue([][2]string{
		{":click <name>", "open a profile in view mode, connect names in edit mode"},
		{":mode", "switch between view and edit mode"},
		{":esc", "drop the selection and the pending lookup"},
		{":rm <a>, <b>", "remove one of your custom connections"},
		{":graph", "show the current graph"},
		{":find <query>", "fuzzy search the graph names"},
		{":quit", "leave (an empty line works too)"},
	})
}

// run reads commands until the user quits, then waits for the pending
// lookup.
func (x *explorer) run() {
	x.help()
	for {
		if !x.handle(strings.TrimSpace(x.u.Ask(nil))) {
			break
		}
	}
	x.wait()
}

func (x *explorer) wait() {
	x.wg.Wait()
}

// handle runs one input line and reports whether the session goes on.
func (x *explorer) handle(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "", ":quit", ":q":
		return false
	case ":help":
		x.help()
	case ":mode":
		x.u.Interpret(x.editor.ToggleMode().String() + " mode")
	case ":esc":
		x.editor.Escape()
		x.latest.Stop()
		x.u.Interpret("selection cleared")
	case ":click", ":c":
		x.click(arg)
	case ":rm":
		x.remove(arg)
	case ":graph":
		renderGraph(x.u, x.editor.Data())
	case ":find":
		findNames(x.u, arg, x.editor.Data().NodeNames())
	default:
		if strings.HasPrefix(cmd, ":") {
			x.u.Warn("Unknown command %s, try :help", cmd)
			return true
		}
		x.search(line)
	}
	return true
}

// search resolves name in the background. A result superseded by a later
// search or by :esc is dropped.
func (x *explorer) search(name string) {
	candidates := x.editor.Data().NodeNames()
	run := x.latest.StartApply(x.ctx, name, func(p ens.Profile) {
		renderProfile(x.u, p, x.verbose)
		if p.Outcome() == ens.OutcomeNotFound {
			suggest(x.u, name, candidates)
		}
	})
	x.u.Interpret("looking up " + name)
	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		if !run() {
			x.logger.Debug("dropping stale profile", zap.String("name", name))
		}
	}()
}

func (x *explorer) click(name string) {
	if !contains(x.editor.Data().NodeNames(), name) {
		x.u.Warn("%s is not in the graph", name)
		return
	}
	first, _ := x.editor.Selected()
	res, err := x.editor.Click(name)
	switch res {
	case graph.Open:
		x.search(name)
	case graph.Selected:
		x.u.Info("Selected %s, click another name to connect them", name)
	case graph.Deselected:
		x.u.Info("Deselected %s", name)
	case graph.Created:
		x.u.Success("Connected %s and %s", first, name)
	case graph.Duplicate:
		x.u.Warn("%s", err)
	}
}

func (x *explorer) remove(arg string) {
	a, b, ok := strings.Cut(arg, ",")
	if !ok {
		x.u.Warn(`Use ":rm name1.eth, name2.eth"`)
		return
	}
	e := graph.NewEdge(a, b)
	if err := x.editor.RemoveLink(e); err != nil {
		if errors.Is(err, graph.ErrNotCustom) {
			x.u.Error("Can only delete custom edges. This edge is from the input text.")
			return
		}
		x.u.Error("%s", err)
		return
	}
	x.u.Success("Removed %s", e)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse profiles and edit your connections interactively",
	Long: `Start an interactive session on the graph of a pairs file (the example pairs
when --pairs is not given) and your custom connections. Type a name to look it
up; typing another one before the first answers replaces it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := graph.DefaultExample
		if explorePairs != "" {
			var err error
			if text, err = readPairsText(cmd.InOrStdin(), explorePairs); err != nil {
				return err
			}
		}
		pairs, diags := graph.ParsePairs(text)
		for _, d := range diags {
			appUI.Error("%s", d)
		}

		e, err := openEdges(cmd.Context(), appConfig, appLogger)
		if err != nil {
			return err
		}
		defer e.Close()

		x := newExplorer(cmd.Context(), appUI, resolver(), e, pairs)
		x.logger = appLogger
		x.verbose = exploreVerbose
		appUI.Info("%s", x.editor.Data().Summary())
		x.run()
		return nil
	},
}

func init() {
	exploreCmd.Flags().StringVarP(&explorePairs, "pairs", "p", "", "pairs file to start from")
	exploreCmd.Flags().BoolVarP(&exploreVerbose, "verbose", "v", false, "show the status of every record lookup")
	rootCmd.AddCommand(exploreCmd)
}
