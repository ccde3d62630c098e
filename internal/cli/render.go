package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags        requestFlags
		page         string
		routed       bool
		noThumbnails bool
	)

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render the flow diagram of a document page",
		Long: `Render the flow diagram of a document page.

The render command scans the page, rasterizes screen thumbnails, lays the flow
out and exports the diagram. Multiple formats can be requested at once:

  screenflow render shop.yaml -f svg,png
  screenflow render shop.yaml --tier pro -f pdf -o checkout

PDF export and interaction labels require the pro tier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.requestOptions(&flags)
			opts.Formats = parseFormats(flags.formats)
			opts.RoutedEdges = routed
			opts.NoThumbnails = noThumbnails
			return c.runRender(cmd.Context(), args[0], page, opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "page id or name (default: first page)")
	cmd.Flags().StringSliceVarP(&flags.formats, "format", "f", nil, "output formats: svg (default), png, pdf, json")
	cmd.Flags().BoolVar(&routed, "routed", false, "draw arrows along routed bend points")
	cmd.Flags().BoolVar(&noThumbnails, "no-thumbnails", false, "skip screen thumbnails")
	flags.bindTier(cmd)
	flags.bindLayout(cmd)
	flags.bindOutput(cmd, "<document>.<format>")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, page string, opts pipeline.Options, flags *requestFlags) error {
	src, err := c.openSource(input, page)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+src.DiagramName()+"...")
	spinner.Start()
	res, err := runner.Generate(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := artifactPaths(res.Artifacts, input, flags.output)
	for i, a := range res.Artifacts {
		if err := os.WriteFile(paths[i], a.Data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[i], err)
		}
	}

	printSuccess("Rendered %s", StyleHighlight.Render(res.Record.Name))
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.Screens, res.Stats.Transitions, res.CacheInfo.LayoutHit)
	if res.Stats.ThumbnailsFailed > 0 {
		printWarning("%d of %d thumbnails could not be rendered", res.Stats.ThumbnailsFailed, res.Stats.Screens)
	}
	printDetail("tier %s · layout %s · export %s",
		res.Record.Tier,
		res.Stats.LayoutTime.Round(time.Millisecond),
		res.Stats.ExportTime.Round(time.Millisecond))
	return nil
}

// artifactPaths names one output file per artifact. A single artifact is
// written to output as given; otherwise output (or the input name) is the
// base and each format adds its extension.
func artifactPaths(arts []export.Artifact, input, output string) []string {
	paths := make([]string, len(arts))
	if len(arts) == 1 && output != "" {
		paths[0] = output
		return paths
	}
	base := output
	if base == "" {
		base = basePath(input, ".yaml", ".yml", ".json")
	}
	for i, a := range arts {
		paths[i] = basePath(base, a.Format.Ext()) + a.Format.Ext()
	}
	return paths
}
