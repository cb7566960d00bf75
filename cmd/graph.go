package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/ui"
)

var (
	graphJSON       bool
	graphSkipCustom bool
	graphWatch      bool
)

// readPairsText reads the pairs file at path. An empty path or "-" reads
// stdin.
func readPairsText(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pairs: %w", err)
	}
	return string(data), nil
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// validatePairs prints the valid pair count and every diagnostic. It
// returns false when some line was rejected.
func validatePairs(u ui.UI, text string) bool {
	pairs, diags := graph.ParsePairs(text)
	if len(pairs) > 0 {
		u.Success("%d valid pairs", len(pairs))
	} else {
		u.Warn("No valid pairs")
	}
	for _, d := range diags {
		u.Error("%s", d)
	}
	return len(diags) == 0
}

// showGraph renders the graph of text plus the custom edges.
func showGraph(u ui.UI, text string, custom []graph.Edge, asJSON bool) error {
	pairs, diags := graph.ParsePairs(text)
	data := graph.Build(pairs, custom)
	if asJSON {
		enc := json.NewEncoder(u.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	for _, d := range diags {
		u.Error("%s", d)
	}
	renderGraph(u, data)
	return nil
}

func renderGraph(u ui.UI, data graph.Data) {
	if len(data.Links) == 0 {
		u.Warn("Nothing to show: enter some pairs or add custom connections")
		return
	}
	rows := make([][]string, 0, len(data.Links))
	for _, l := range data.Links {
		kind := "input"
		if l.Custom {
			kind = u.Style(ui.StyledText{Text: "custom", Severity: ui.SeveritySuccess})
		}
		rows = append(rows, []string{l.Source, l.Target, kind})
	}
	u.Table([]string{"From", "To", "Kind"}, rows)
	u.Info("%s", data.Summary())
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Validate pairs of ENS names and build the graph between them",
	Long: `Pairs are given one per line as "name1.eth, name2.eth". Every command reads
the pairs from the file given as argument, or from stdin when it is omitted
or "-".`,
}

var graphValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check every line of a pairs file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPairsText(cmd.InOrStdin(), pathArg(args))
		if err != nil {
			return err
		}
		if !validatePairs(appUI, text) {
			return errors.New("some lines are invalid")
		}
		return nil
	},
}

var graphShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the graph of a pairs file together with your custom connections",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pathArg(args)
		if graphWatch && (path == "" || path == "-") {
			return errors.New("--watch needs a pairs file")
		}
		e, err := openEdges(cmd.Context(), appConfig, appLogger)
		if err != nil {
			return err
		}
		defer e.Close()

		render := func() error {
			text, err := readPairsText(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			var custom []graph.Edge
			if !graphSkipCustom {
				custom = e.List()
			}
			return showGraph(appUI, text, custom, graphJSON)
		}
		if err := render(); err != nil {
			return err
		}
		if !graphWatch {
			return nil
		}
		return watchFile(cmd.Context(), path, appLogger, func() {
			if err := render(); err != nil {
				appLogger.Warn("failed to render graph", zap.Error(err))
			}
		})
	},
}

var graphExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print example pairs to start from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(appUI.Writer(), graph.DefaultExample)
	},
}

var graphFindCmd = &cobra.Command{
	Use:   "find <query> [file]",
	Short: "Fuzzy search the names of the graph",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPairsText(cmd.InOrStdin(), pathArg(args[1:]))
		if err != nil {
			return err
		}
		e, err := openEdges(cmd.Context(), appConfig, appLogger)
		if err != nil {
			return err
		}
		defer e.Close()
		pairs, _ := graph.ParsePairs(text)
		findNames(appUI, args[0], graph.Build(pairs, e.List()).NodeNames())
		return nil
	},
}

func findNames(u ui.UI, query string, names []string) {
	matches := graph.Find(query, names)
	if len(matches) == 0 {
		u.Warn("No names match %q", query)
		return
	}
	for i, m := range matches {
		u.Info("%d. %s", i+1, m.Name)
	}
}

func init() {
	graphShowCmd.Flags().BoolVar(&graphJSON, "json", false, "print nodes and links as JSON")
	graphShowCmd.Flags().BoolVar(&graphSkipCustom, "skip-custom", false, "leave your custom connections out")
	graphShowCmd.Flags().BoolVarP(&graphWatch, "watch", "w", false, "render again every time the pairs file changes")
	graphCmd.AddCommand(graphValidateCmd, graphShowCmd, graphExampleCmd, graphFindCmd)
	rootCmd.AddCommand(graphCmd)
}
