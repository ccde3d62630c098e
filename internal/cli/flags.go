package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// requestFlags are the generation parameters shared by scan, layout and
// render. Empty values fall back to the config file.
type requestFlags struct {
	tier      string
	direction string
	engine    string
	formats   []string
	output    string
	noCache   bool
	refresh   bool
}

func (f *requestFlags) bindTier(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tier, "tier", "", "feature tier: free (default), pro")
}

func (f *requestFlags) bindLayout(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "flow direction: LR (default), TB")
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", "layout engine: layered (default), graphviz")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
}

func (f *requestFlags) bindOutput(cmd *cobra.Command, def string) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: "+def+")")
}

// parseFormats splits comma-separated format flags ("svg,png" or repeated -f).
func parseFormats(values []string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// basePath strips the extension of a known output kind from path.
func basePath(path string, suffixes ...string) string {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return strings.TrimSuffix(path, s)
		}
	}
	return path
}
