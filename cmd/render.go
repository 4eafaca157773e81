/*
Copyright © 2025 Honoka Toda, Shinya Ishitobi

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/config"
	"github.com/vanstudio/sequence-cli/internal/diagram"
	"github.com/vanstudio/sequence-cli/internal/participant"
	"github.com/vanstudio/sequence-cli/internal/render"
	"github.com/vanstudio/sequence-cli/internal/watch"
)

var (
	errSingleInput = errors.New("flag needs exactly one input file")
	errWatchOutput = errors.New("--watch needs --output")
	errOutputDir   = errors.New("flag cannot be combined with --output-dir")

	errOutputCollision = errors.New("output file collision")
)

var statusColor = color.New(color.FgGreen)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a call tree as a sequence diagram",
	Long: `Render a recorded call tree in one of the supported diagram formats.
Provide the call tree files as arguments. The result goes to stdout, to a file via -o/--output
or, for several inputs, to one file per input via --output-dir.`,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.PersistentFlags().StringP("output", "o", "", "write the generated diagram to a file")
	renderCmd.PersistentFlags().String("output-dir", "", "write one diagram per input file into this directory")
	renderCmd.PersistentFlags().Bool("simplify", true, "label calls with bare method names instead of full signatures")
	renderCmd.PersistentFlags().Bool("copy", false, "also copy the generated diagram to the clipboard")
	renderCmd.PersistentFlags().Bool("watch", false, "render again whenever the input file changes")
	if err := viper.BindPFlag(config.KeySimplifyCallNames, renderCmd.PersistentFlags().Lookup("simplify")); err != nil {
		panic(err)
	}

	for _, format := range render.Formats() {
		renderCmd.AddCommand(newFormatCmd(format))
	}
}

func newFormatCmd(format string) *cobra.Command {
	return &cobra.Command{
		Use:   format + " FILE...",
		Short: fmt.Sprintf("Generate a %s sequence diagram", format),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, format, args)
		},
	}
}

type renderFlags struct {
	output    string
	outputDir string
	copy      bool
	watch     bool
}

func readRenderFlags(cmd *cobra.Command) (renderFlags, error) {
	var f renderFlags
	var err error
	if f.output, err = cmd.Flags().GetString("output"); err != nil {
		return f, err
	}
	if f.outputDir, err = cmd.Flags().GetString("output-dir"); err != nil {
		return f, err
	}
	if f.copy, err = cmd.Flags().GetBool("copy"); err != nil {
		return f, err
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return f, err
	}
	return f, nil
}

func (f renderFlags) validate(inputs int) error {
	if f.outputDir != "" {
		switch {
		case f.output != "":
			return fmt.Errorf("--output: %w", errOutputDir)
		case f.copy:
			return fmt.Errorf("--copy: %w", errOutputDir)
		case f.watch:
			return fmt.Errorf("--watch: %w", errOutputDir)
		}
	}
	if inputs > 1 {
		switch {
		case f.output != "":
			return fmt.Errorf("--output: %w, use --output-dir", errSingleInput)
		case f.copy:
			return fmt.Errorf("--copy: %w", errSingleInput)
		case f.watch:
			return fmt.Errorf("--watch: %w", errSingleInput)
		case f.outputDir == "":
			return fmt.Errorf("%d input files need --output-dir", inputs)
		}
	}
	if f.watch && f.output == "" {
		return errWatchOutput
	}
	return nil
}

func runRender(cmd *cobra.Command, format string, args []string) error {
	flags, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	if err := flags.validate(len(args)); err != nil {
		return err
	}

	opts, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	r, err := render.New(format, opts)
	if err != nil {
		return err
	}

	if flags.outputDir != "" {
		return renderAll(cmd.Context(), r, args, flags.outputDir, cmd.ErrOrStderr())
	}

	input := args[0]
	content, err := renderFile(r, input)
	if err != nil {
		return err
	}

	if flags.output == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), content); err != nil {
			return err
		}
	} else {
		if err := writeDiagram(flags.output, content); err != nil {
			return err
		}
		statusColor.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", flags.output)
	}

	if flags.copy {
		if err := clipboard.WriteAll(content); err != nil {
			return fmt.Errorf("failed to copy diagram to clipboard: %w", err)
		}
		statusColor.Fprintln(cmd.ErrOrStderr(), "copied diagram to clipboard")
	}

	if flags.watch {
		return watchAndRender(cmd.Context(), r, input, flags.output, cmd.ErrOrStderr())
	}
	return nil
}

// renderFile loads the call tree at path and returns its diagram.
func renderFile(r diagram.Renderer, path string) (string, error) {
	root, err := calltree.Load(path)
	if err != nil {
		return "", err
	}
	participants := participant.Collect(root).List()

	var buf bytes.Buffer
	if err := r.Render(&buf, root, participants); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	slog.Debug("rendered diagram", "input", path, "participants", len(participants))
	return buf.String(), nil
}

// renderAll renders every input concurrently into dir, one file per input
// named after the input with the renderer's extension.
func renderAll(ctx context.Context, r diagram.Renderer, inputs []string, dir string, status io.Writer) error {
	outputs, err := outputPaths(inputs, dir, r.Extension())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := renderFile(r, input)
			if err != nil {
				return err
			}
			return writeDiagram(outputs[i], content)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, out := range outputs {
		statusColor.Fprintf(status, "wrote %s\n", out)
	}
	return nil
}

// outputPaths maps every input to its file in dir. Two inputs that would
// write the same file are an error.
func outputPaths(inputs []string, dir, ext string) ([]string, error) {
	outputs := make([]string, len(inputs))
	sources := make(map[string]string, len(inputs))
	for i, input := range inputs {
		out := filepath.Join(dir, outputName(input, ext))
		if prev, ok := sources[out]; ok {
			return nil, fmt.Errorf("%s and %s both render to %s: %w", prev, input, out, errOutputCollision)
		}
		sources[out] = input
		outputs[i] = out
	}
	return outputs, nil
}

func outputName(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func writeDiagram(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write diagram %s: %w", path, err)
	}
	return nil
}

func watchAndRender(ctx context.Context, r diagram.Renderer, input, output string, status io.Writer) error {
	w, err := watch.New(input)
	if err != nil {
		return err
	}
	defer w.Close()

	statusColor.Fprintf(status, "watching %s\n", input)
	return w.Run(ctx, func() error {
		content, err := renderFile(r, input)
		if err != nil {
			return err
		}
		if err := writeDiagram(output, content); err != nil {
			return err
		}
		statusColor.Fprintf(status, "wrote %s\n", output)
		return nil
	})
}
