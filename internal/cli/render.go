package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/render/sink"
)

const (
	formatSVG     = "svg"
	formatJSON    = "json"
	defaultWidth  = 800 // default frame width in pixels
	defaultHeight = 600 // default frame height in pixels
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output     string
	format     string
	width      float64
	height     float64
	icon       string
	labels     bool
	grid       float64
	background string
	noCache    bool
}

// layoutSource is what render draws: a stored layout or a local file.
type layoutSource struct {
	id     string
	name   string
	tables []floor.Table
}

// renderCommand draws a layout fitted to a frame.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: formatSVG,
		width:  defaultWidth,
		height: defaultHeight,
		labels: true,
	}

	cmd := &cobra.Command{
		Use:   "render [id|layout.json]",
		Short: "Render a layout to SVG or JSON",
		Long: `Render a layout fitted to a frame of the given size.

The argument is a stored layout id or a layout file. The plan is scaled to
fit the frame (between 0.5x and 2x) and drawn from the top-left corner.
With --icon every table is drawn with that image; if the image cannot be
loaded no tables are drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatSVG && opts.format != formatJSON {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg or json)", opts.format)
			}
			if !(opts.width > 0 && opts.height > 0) {
				return errors.New(errors.ErrCodeInvalidInput, "frame must have a positive size, got %gx%g", opts.width, opts.height)
			}

			ctx := cmd.Context()
			src, err := c.resolveLayout(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := renderLayout(ctx, src, opts)
			if err != nil {
				return err
			}

			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := errors.ValidatePath(opts.output); err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess(cmd.OutOrStdout(), "Rendered %d tables", len(src.tables))
			printFile(cmd.OutOrStdout(), opts.output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: svg or json")
	f.Float64Var(&opts.width, "width", opts.width, "frame width in pixels")
	f.Float64Var(&opts.height, "height", opts.height, "frame height in pixels")
	f.StringVar(&opts.icon, "icon", "", "table icon: file path or http(s) URL (default: plain rectangles)")
	f.BoolVar(&opts.labels, "labels", opts.labels, "draw table names (svg)")
	f.Float64Var(&opts.grid, "grid", 0, "draw grid lines every N world units (svg)")
	f.StringVar(&opts.background, "background", "", "background color (svg)")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not cache downloaded icons")

	return cmd
}

// resolveLayout reads ref as a layout file when it names one, and loads it
// from the store otherwise.
func (c *CLI) resolveLayout(ctx context.Context, ref string) (layoutSource, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		draft, err := document.ReadDraftFile(ref)
		if err != nil {
			return layoutSource{}, err
		}
		return layoutSource{name: draft.Name, tables: draft.Tables}, nil
	}

	st, _, err := c.layoutStore(ctx)
	if err != nil {
		return layoutSource{}, err
	}
	defer st.Close()
	doc, err := st.Load(ctx, ref)
	if err != nil {
		return layoutSource{}, err
	}
	return layoutSource{id: doc.ID, name: doc.Name, tables: doc.Tables}, nil
}

func renderLayout(ctx context.Context, src layoutSource, opts renderOpts) ([]byte, error) {
	frame := geom.Size{Width: opts.width, Height: opts.height}
	vp := geom.NewViewport().Fit(frame, floor.Rects(src.tables))
	items := render.Render(src.tables, vp.Scale, vp.Offset)
	loggerFromContext(ctx).Debug("fitted layout", "tables", len(items), "scale", vp.Scale)

	var icon *render.Icon
	if opts.icon != "" {
		loader, release := newIconLoader(opts.icon, opts.noCache)
		defer release()
		ic := render.LoadIcon(ctx, loader, opts.icon)
		if ic.Failed() {
			loggerFromContext(ctx).Warn("table icon unavailable, no tables drawn", "icon", opts.icon, "err", ic.Err)
		}
		icon = &ic
	}

	if opts.format == formatJSON {
		jopts := []sink.JSONOption{sink.WithJSONViewport(vp), sink.WithJSONLayout(src.id, src.name)}
		if icon != nil {
			jopts = append(jopts, sink.WithJSONIcon(*icon))
		}
		return sink.RenderJSON(frame, items, jopts...)
	}

	sopts := []sink.SVGOption{sink.WithTitle(src.name)}
	if icon != nil {
		sopts = append(sopts, sink.WithIcon(*icon))
	}
	if opts.labels {
		sopts = append(sopts, sink.WithLabels())
	}
	if opts.grid > 0 {
		sopts = append(sopts, sink.WithGrid(opts.grid, vp))
	}
	if opts.background != "" {
		sopts = append(sopts, sink.WithBackground(opts.background))
	}
	return sink.RenderSVG(frame, items, sopts...), nil
}
