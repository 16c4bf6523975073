package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/reactless/internal/presentation/graph"
	"github.com/aretw0/reactless/internal/presentation/tui"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/schema"
)

// Execute handles the 'render' command logic, dispatching to one-shot or watch mode.
func Execute(ctx context.Context, opts RenderOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.Watch {
		return RunWatch(ctx, opts, out)
	}
	return RunRender(ctx, opts, out)
}

// RunRender renders the document at opts.Path once and prints the result.
func RunRender(ctx context.Context, opts RenderOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger := CreateLogger(opts.GlobalOptions)

	el, err := decode(opts.Path, newHandlerResolver(logger), logger)
	if err != nil {
		return err
	}

	wb, err := createWorkbench(opts, logger)
	if err != nil {
		return err
	}
	res, err := wb.render(ctx, el)
	if err != nil {
		return err
	}
	logger.Debug("Document rendered", "path", opts.Path, "slices", res.Slices, "mutations", len(res.Mutations))

	return printResult(ctx, wb, opts, out)
}

// printResult writes the committed tree in the requested format.
func printResult(ctx context.Context, wb *workbench, opts RenderOptions, out io.Writer) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(wb.snapshot())
	case FormatMermaid, FormatFibers:
		infos, err := wb.inspect(ctx)
		if err != nil {
			return err
		}
		if opts.Format == FormatMermaid {
			var overlay *graph.Overlay
			if opts.Effects {
				overlay = &graph.Overlay{Effects: true}
			}
			fmt.Fprint(out, graph.GenerateMermaid(infos, overlay))
			return nil
		}
		tui.NewPrinter(out, opts.Color).Fibers(infos)
		return nil
	default:
		tui.NewPrinter(out, opts.Color).Tree(wb.snapshot())
		return nil
	}
}

// RunDiff renders oldPath, then newPath into the same container, and prints
// the mutations the second commit applied.
func RunDiff(ctx context.Context, oldPath, newPath string, opts RenderOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger := CreateLogger(opts.GlobalOptions)
	resolver := newHandlerResolver(logger)

	before, err := decode(oldPath, resolver, logger)
	if err != nil {
		return err
	}
	after, err := decode(newPath, resolver, logger)
	if err != nil {
		return err
	}

	wb, err := createWorkbench(opts, logger)
	if err != nil {
		return err
	}
	if _, err := wb.render(ctx, before); err != nil {
		return err
	}
	res, err := wb.render(ctx, after)
	if err != nil {
		return err
	}

	tui.NewPrinter(out, opts.Color).Mutations(res.Mutations)
	return nil
}

func decode(path string, resolver schema.Resolver, logger *slog.Logger) (domain.Element, error) {
	el, err := schema.DecodeFile(path, resolver)
	if err != nil {
		logger.Error("Document rejected", "path", path, "err", err)
	}
	return el, err
}
