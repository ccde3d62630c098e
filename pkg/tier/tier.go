// Package tier defines the feature tiers that gate screen counts, flow
// highlighting, interaction labels and PDF export.
//
// There are exactly two tiers. Any unrecognized name resolves to [Free];
// resolving a tier never fails.
package tier

import (
	"strconv"
	"strings"

	"github.com/matzehuels/screenflow/pkg/errors"
)

// Tier names.
const (
	Free = "free"
	Pro  = "pro"
)

// FormatPDF is the export format reserved to tiers with PDFExport.
const FormatPDF = "pdf"

// Config is the feature profile of a tier. MaxScreens of 0 means unbounded.
type Config struct {
	Name              string `json:"name"`
	MaxScreens        int    `json:"max_screens"`
	FlowHighlighting  bool   `json:"flow_highlighting"`
	InteractionLabels bool   `json:"interaction_labels"`
	PDFExport         bool   `json:"pdf_export"`
}

var table = map[string]Config{
	Free: {Name: Free, MaxScreens: 10},
	Pro:  {Name: Pro, FlowHighlighting: true, InteractionLabels: true, PDFExport: true},
}

// Resolve returns the tier with the given name, case-insensitively.
// Unknown names resolve to the free tier.
func Resolve(name string) Config {
	if c, ok := table[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return table[Free]
}

// All returns every tier, free first.
func All() []Config {
	return []Config{table[Free], table[Pro]}
}

// Unbounded reports whether the tier accepts any number of screens.
func (c Config) Unbounded() bool { return c.MaxScreens <= 0 }

// CheckScreens rejects a screen count above the tier's ceiling with an
// ErrCodeTierLimit error stating both numbers.
func (c Config) CheckScreens(n int) error {
	if c.Unbounded() || n <= c.MaxScreens {
		return nil
	}
	return errors.New(errors.ErrCodeTierLimit,
		"found %d screens, the %s tier allows up to %d", n, c.Name, c.MaxScreens)
}

// CheckExport rejects formats the tier may not export. Only PDF is gated.
func (c Config) CheckExport(format string) error {
	if strings.EqualFold(format, FormatPDF) && !c.PDFExport {
		return errors.New(errors.ErrCodeFeatureGated,
			"PDF export is not available on the %s tier", c.Name)
	}
	return nil
}

// Limit returns MaxScreens formatted for display.
func (c Config) Limit() string {
	if c.Unbounded() {
		return "unlimited"
	}
	return strconv.Itoa(c.MaxScreens)
}
