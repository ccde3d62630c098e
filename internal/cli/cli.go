package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/buildinfo"
	"github.com/matzehuels/screenflow/pkg/cache"
	"github.com/matzehuels/screenflow/pkg/pipeline"
	"github.com/matzehuels/screenflow/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "screenflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Screenflow turns prototype interactions into flow diagrams",
		Long: `Screenflow scans the prototype interactions of a design document and
lays its screens out as a left-to-right or top-to-bottom flow diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configFile)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/screenflow/config.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.tiersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner over the configured cache and store.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx)
	if err != nil {
		ch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(ch, st, c.Logger)
	if c.Config.Cache.Prefix != "" {
		r.Keyer = cache.NewScopedKeyer(r.Keyer, c.Config.Cache.Prefix)
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == "redis" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	case "file":
		dir := cfg.Dir
		if dir == "" {
			d, err := dataDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return store.NewFileStore(dir)
	}
	return store.NewMemoryStore(), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/screenflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the directory of the file store (~/.local/share/screenflow/diagrams).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "diagrams"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "diagrams"), nil
}

// requestOptions merges the config file under the command-line flags.
func (c *CLI) requestOptions(f *requestFlags) pipeline.Options {
	opts := pipeline.Options{
		Tier:      pick(f.tier, c.Config.Tier),
		Direction: pick(f.direction, c.Config.Direction),
		Engine:    pick(f.engine, c.Config.Engine),
		Layout:    c.Config.Layout,
		Refresh:   f.refresh,
		Logger:    c.Logger,
	}
	return opts
}

func pick(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}
