package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/frametree/internal/demo"
	"github.com/vango-dev/frametree/internal/errors"
	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/fixture"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/protocol"
	"github.com/vango-dev/frametree/pkg/render"
	"github.com/vango-dev/frametree/pkg/snapshot"
)

func renderCmd(configDir *string) *cobra.Command {
	var (
		format   string
		output   string
		demoName string
		key      string
	)

	cmd := &cobra.Command{
		Use:   "render [fixture.yaml]",
		Short: "Render a fixture to frames",
		Long: `Render a YAML fixture against the demo component catalog and print
the resulting frames.

Formats:
  text    indented frame listing (default)
  json    frames with fragments expanded
  binary  the encoded frame document
  html    the HTML of the rendered components

Examples:
  frametree render card.yaml
  frametree render --demo page --format json
  frametree render card.yaml --snapshot cards/basic`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args, demoName)
			if err != nil {
				return err
			}
			return runRender(cmd, *configDir, doc, format, output, key)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, binary, html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().StringVar(&demoName, "demo", "", "Render an embedded demo fixture by name")
	cmd.Flags().StringVar(&key, "snapshot", "", "Also store the frames as a snapshot under this key")

	return cmd
}

func loadDocument(args []string, demoName string) (*fixture.Document, error) {
	switch {
	case demoName != "" && len(args) > 0:
		return nil, errors.New("F080").WithDetail("pass either a fixture file or --demo, not both")
	case demoName != "":
		data, err := demo.Fixture(demoName)
		if err != nil {
			return nil, errors.New("F080").
				WithDetail(fmt.Sprintf("unknown demo fixture %q", demoName)).
				WithSuggestion(fmt.Sprintf("Available: %v", demo.Fixtures()))
		}
		return fixture.Parse(demoName+".yaml", data)
	case len(args) == 1:
		return fixture.Load(args[0])
	}
	return nil, errors.New("F080").WithDetail("a fixture file or --demo is required")
}

func runRender(cmd *cobra.Command, configDir string, doc *fixture.Document, format, output, key string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	limits := depthLimits(cfg)

	c := newConstructor(demo.Registry(), logger)
	fs, err := doc.Render(cmd.Context(), c)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.New("F080").Wrap(err)
		}
		defer f.Close()
		w = f
	}
	if err := writeFrames(cmd.Context(), w, c, fs, format, limits); err != nil {
		return err
	}

	if key != "" {
		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		if err := snapshot.Save(cmd.Context(), store, key, fs, limits); err != nil {
			return errors.New("F060").Wrap(err)
		}
		success(cmd, "Stored snapshot %s (%d frames)", key, len(fs))
	}
	return nil
}

func writeFrames(ctx context.Context, w io.Writer, c *construct.Constructor, fs frame.Frames, format string, limits *protocol.DepthLimits) error {
	switch format {
	case "html":
		return render.NewRenderer(c, render.Config{MaxDepth: limits.FragmentDepth}).RenderToWriter(ctx, w, fs)
	case "text":
		_, err := io.WriteString(w, fs.Dump())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(protocol.Expand(fs, limits))
	case "binary":
		return protocol.WriteFrames(w, fs, limits)
	}
	return errors.New("F080").
		WithDetail(fmt.Sprintf("unknown format %q", format)).
		WithSuggestion("Use one of: text, json, binary, html")
}
