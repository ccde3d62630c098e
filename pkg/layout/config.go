package layout

import "github.com/matzehuels/screenflow/pkg/errors"

// Default card size and separations, in pixels.
const (
	DefaultCardWidth  = 240
	DefaultCardHeight = 180
	DefaultRankSep    = 160
	DefaultNodeSep    = 80
)

// Upper bounds accepted by [Config.Validate], in pixels.
const (
	MaxCardSide   = 4096
	MaxSeparation = 4096
)

// Config holds the constants of a layout request.
type Config struct {
	CardWidth  float64 `json:"card_width" toml:"card_width" validate:"gt=0,lte=4096"`
	CardHeight float64 `json:"card_height" toml:"card_height" validate:"gt=0,lte=4096"`
	// RankSep is the gap between consecutive ranks along the primary axis.
	RankSep float64 `json:"rank_sep" toml:"rank_sep" validate:"gte=0,lte=4096"`
	// NodeSep is the gap between neighbours within a rank.
	NodeSep float64 `json:"node_sep" toml:"node_sep" validate:"gte=0,lte=4096"`
	// Passes bounds the ordering sweeps of the layered engine.
	Passes int `json:"passes,omitempty" toml:"passes" validate:"gte=0,lte=100"`
}

// DefaultConfig returns the default card size and separations.
func DefaultConfig() Config {
	return Config{
		CardWidth:  DefaultCardWidth,
		CardHeight: DefaultCardHeight,
		RankSep:    DefaultRankSep,
		NodeSep:    DefaultNodeSep,
	}
}

// WithDefaults fills zero card dimensions and separations with defaults.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.CardWidth == 0 {
		c.CardWidth = d.CardWidth
	}
	if c.CardHeight == 0 {
		c.CardHeight = d.CardHeight
	}
	if c.RankSep == 0 {
		c.RankSep = d.RankSep
	}
	if c.NodeSep == 0 {
		c.NodeSep = d.NodeSep
	}
	return c
}

// Validate rejects card sizes outside (0, MaxCardSide] and separations
// outside [0, MaxSeparation].
func (c Config) Validate() error {
	return errors.ValidateStruct(c)
}

// extent returns the card size along the primary and secondary axes.
func (c Config) extent(dir Direction) (primary, secondary float64) {
	if dir.Horizontal() {
		return c.CardWidth, c.CardHeight
	}
	return c.CardHeight, c.CardWidth
}
