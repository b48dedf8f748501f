package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	*rootOptions
	depth      int
	noOutline  bool
	pageOffset int
	jsonOut    bool
	anchors    bool
	watch      bool
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	opts := &buildOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Outline the given files as one document",
		Long: `Lay out the given files in order, as one paginated output, and print the
bookmark tree of their headings. Flags override the configured defaults.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if !parser.IsSupportedExtension(a) {
					return fmt.Errorf("unsupported file type: %s", a)
				}
			}
			if !opts.watch {
				return opts.run(cmd, args)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := opts.run(cmd, args); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
			}
			return watchFiles(ctx, args, opts.logger(cmd.ErrOrStderr()), func() {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("change detected, rebuilding"))
				if err := opts.run(cmd, args); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
				}
			})
		},
	}

	defaults := outline.DefaultSettings()
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", defaults.Depth, "Heading levels to include in the outline")
	cmd.Flags().BoolVar(&opts.noOutline, "no-outline", false, "Skip the bookmark tree, report pages only")
	cmd.Flags().IntVar(&opts.pageOffset, "page-offset", defaults.PageOffset, "Number printed on the first page")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.anchors, "anchors", false, "Also list every anchor per document")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Rebuild whenever an input file changes")
	return cmd
}

// settings starts from the configured defaults and applies the flags the
// user actually set.
func (o *buildOptions) settings(cmd *cobra.Command, defaults outline.Settings) outline.Settings {
	s := defaults
	if cmd.Flags().Changed("depth") {
		s.Depth = o.depth
	}
	if cmd.Flags().Changed("page-offset") {
		s.PageOffset = o.pageOffset
	}
	if o.noOutline {
		s.Outline = false
	}
	return s
}

func (o *buildOptions) run(cmd *cobra.Command, paths []string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	settings := o.settings(cmd, cfg.OutlineSettings())
	if settings.Depth < 0 {
		return fmt.Errorf("depth must not be negative")
	}

	files, err := readFiles(paths)
	if err != nil {
		return err
	}

	log := o.logger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := pipeline.Build(ctx, files, settings, pipeline.NewEngine(cfg), log)
	if err != nil {
		return err
	}
	log.Info("built outline", logfields.Pages(res.PageCount), "documents", len(res.Documents))

	if o.jsonOut {
		return writeJSON(cmd.OutOrStdout(), res, o.anchors)
	}
	printResult(cmd.OutOrStdout(), res, o.anchors)
	return nil
}

func readFiles(paths []string) ([]pipeline.File, error) {
	files := make([]pipeline.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, pipeline.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

type jsonResult struct {
	*pipeline.Result
	Anchors [][]anchorRow `json:"anchors,omitempty"`
}

func writeJSON(w io.Writer, res *pipeline.Result, withAnchors bool) error {
	out := jsonResult{Result: res}
	if withAnchors {
		for i := range res.Documents {
			out.Anchors = append(out.Anchors, sortedAnchors(res, i))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
