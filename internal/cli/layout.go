package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/graph"
)

// layoutCommand creates the layout command for positioning a scanned flow.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute the layout of a flow graph",
		Long: `Compute the layout of a flow graph.

The layout command takes a graph.json file (produced by 'scan') and assigns
every screen a rank and a position along the flow direction. Transitions are
routed through bend points; transitions pointing backwards are routed around
the far side of the diagram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags)
		},
	}

	flags.bindLayout(cmd)
	flags.bindOutput(cmd, "<input>.layout.json")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, flags *requestFlags) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.requestOptions(flags)
	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = basePath(input, ".graph.json", ".json") + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printKeyValue("Engine", l.Engine)
	printKeyValue("Direction", string(l.Direction))
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	return nil
}
