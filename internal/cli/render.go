package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwolf/schemascope/pkg/cache"
	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/observability"
	"github.com/mwolf/schemascope/pkg/render"
	"github.com/mwolf/schemascope/pkg/schema"
)

// Supported output formats.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
	formatDOT = "dot"
)

// renderCommand creates the render command for producing diagram images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		scale    float64
		detailed bool
		noCache  bool
		lf       layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [schema.json]",
		Short: "Render a schema graph as SVG, PNG, PDF, or DOT",
		Long: `Render a schema graph as a diagram image.

The render command computes positions the same way 'layout' does, then
draws the diagram with Graphviz. Tables appear as boxes, views with
rounded corners, triggers dashed next to their tables, and routines in a
grid below the relationship cluster.

PNG and PDF output require librsvg (rsvg-convert) on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], lf, output, format, scale, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), png, pdf, dot")
	cmd.Flags().Float64Var(&scale, "scale", 2.0, "PNG resolution scale factor")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include columns and data types in table labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.registerLayoutFlags(cmd, &lf)

	return cmd
}

// runRender computes the diagram and writes the rendered artifact.
func (c *CLI) runRender(ctx context.Context, input string, lf layoutFlags, output, format string, scale float64, detailed, noCache bool) error {
	format = strings.ToLower(format)
	switch format {
	case formatSVG, formatPNG, formatPDF, formatDOT:
	default:
		return fmt.Errorf("unsupported format %q (svg, png, pdf, dot)", format)
	}

	g, err := schema.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", input, err)
	}
	g.Normalize()

	store := c.newCache(noCache)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()

	d, cacheHit, err := c.computeDiagram(ctx, g, lf, store)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}

	data, err := c.renderArtifact(ctx, &d, &g, store, format, scale, detailed)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", format, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Render complete")
	printFile(outputPath)
	printStats(len(d.Nodes), len(d.Edges), cacheHit)

	return nil
}

// renderArtifact produces the requested format, consulting the artifact
// cache for the expensive ones. DOT output is cheap and never cached.
func (c *CLI) renderArtifact(ctx context.Context, d *diagram.Diagram, g *schema.Graph, store cache.Cache, format string, scale float64, detailed bool) ([]byte, error) {
	dot := render.ToDOT(d, g, render.Options{Detailed: detailed})
	if format == formatDOT {
		return []byte(dot), nil
	}

	key := cache.NewDefaultKeyer().ArtifactKey(cache.Fingerprint([]byte(dot)), cache.ArtifactKeyOpts{Format: format})
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Layout().OnRenderStart(ctx, format)

	var data []byte
	var err error
	switch format {
	case formatSVG:
		data, err = render.RenderSVG(dot)
	case formatPNG:
		data, err = render.RenderPNG(dot, scale)
	case formatPDF:
		data, err = render.RenderPDF(dot)
	}
	observability.Layout().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(c.Config.Cache.TTLHours) * time.Hour
	if cerr := store.Set(ctx, key, data, ttl); cerr == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}
