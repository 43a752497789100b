package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwolf/schemascope/pkg/cache"
	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/observability"
	"github.com/mwolf/schemascope/pkg/schema"
)

// layoutFlags carries the layout options shared by the layout and render
// commands. Defaults come from the config file.
type layoutFlags struct {
	focus       string
	maxLanes    int
	aspectRatio float64
	columns     int
}

// registerLayoutFlags wires the shared layout flags onto cmd.
func (c *CLI) registerLayoutFlags(cmd *cobra.Command, lf *layoutFlags) {
	cfg := c.Config.Layout
	cmd.Flags().StringVar(&lf.focus, "focus", "", "lay out only the given object and its direct relationships")
	cmd.Flags().IntVar(&lf.maxLanes, "max-lanes", cfg.MaxLanes, "maximum lanes per rank (0 = default)")
	cmd.Flags().Float64Var(&lf.aspectRatio, "aspect-ratio", cfg.AspectRatio, "target height:width ratio for lane widening (0 = off)")
	cmd.Flags().IntVar(&lf.columns, "columns", cfg.GridColumns, "columns in the routine grid (0 = default)")
}

func (lf layoutFlags) options() diagram.Options {
	return diagram.Options{
		MaxLanes:          lf.maxLanes,
		TargetAspectRatio: lf.aspectRatio,
		GridColumns:       lf.columns,
	}
}

func (lf layoutFlags) keyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		MaxLanes:          lf.maxLanes,
		TargetAspectRatio: lf.aspectRatio,
		GridColumns:       lf.columns,
		Focus:             lf.focus,
	}
}

// layoutCommand creates the layout command for computing diagram positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [schema.json]",
		Short: "Compute diagram positions from a schema graph",
		Long: `Compute diagram positions from a schema graph.

The layout command takes a schema.json file describing the database's
tables, views, relationships, triggers, and routines, and computes a
left-to-right diagram. The output is a layout.json file with a position
and size for every object, ready for 'render' or for an external viewer.

With --focus, only the named object and its direct relationships are laid
out, with referenced objects to the left and referencing objects to the
right.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], lf, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.registerLayoutFlags(cmd, &lf)

	return cmd
}

// runLayout loads the schema graph, computes the diagram, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, lf layoutFlags, output string, noCache bool) error {
	g, err := schema.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", input, err)
	}
	g.Normalize()

	store := c.newCache(noCache)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	d, cacheHit, err := c.computeDiagram(ctx, g, lf, store)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := diagram.WriteDiagramFile(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(d.Nodes), len(d.Edges), cacheHit)
	if len(d.Unplaced) > 0 {
		printWarning("%d satellites had no parent and fell back to the bottom grid", len(d.Unplaced))
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}

// computeDiagram builds the diagram for g, consulting the cache first.
// The second result reports whether the diagram came from cache.
func (c *CLI) computeDiagram(ctx context.Context, g schema.Graph, lf layoutFlags, store cache.Cache) (diagram.Diagram, bool, error) {
	logger := loggerFromContext(ctx)

	raw, err := schema.MarshalGraph(g)
	if err != nil {
		return diagram.Diagram{}, false, fmt.Errorf("hash schema: %w", err)
	}
	key := cache.NewDefaultKeyer().DiagramKey(cache.Fingerprint(raw), lf.keyOpts())

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		if d, err := diagram.UnmarshalDiagram(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "diagram")
			logger.Debug("layout cache hit", "key", key[:16])
			return d, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "diagram")

	mode := "full"
	if lf.focus != "" {
		mode = "focus"
	}
	nodeCount := len(g.NodeIDs()) + len(g.RoutineIDs()) + len(g.Triggers)

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, mode, nodeCount)

	var d diagram.Diagram
	if lf.focus != "" {
		d = diagram.Focus(g, lf.focus, lf.options())
	} else {
		d = diagram.Build(g, lf.options())
	}
	observability.Layout().OnLayoutComplete(ctx, mode, nodeCount, time.Since(start), nil)

	if data, err := diagram.MarshalDiagram(d); err == nil {
		ttl := time.Duration(c.Config.Cache.TTLHours) * time.Hour
		if err := store.Set(ctx, key, data, ttl); err != nil {
			logger.Debug("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "diagram", len(data))
		}
	}

	return d, false, nil
}
