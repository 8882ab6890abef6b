package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/minify"
	"github.com/matzehuels/zbuilder/pkg/pipeline"
)

// buildFlags are the generate options shared by "build" and "select".
type buildFlags struct {
	minify      bool
	noCompress  bool
	noMangle    bool
	dropConsole bool
	keepNames   bool
	beautify    bool
	warnings    bool
	output      string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.minify, "minify", "m", false, "minify the bundle")
	cmd.Flags().BoolVar(&f.noCompress, "no-compress", false, "skip syntax compression when minifying")
	cmd.Flags().BoolVar(&f.noMangle, "no-mangle", false, "keep local identifier names when minifying")
	cmd.Flags().BoolVar(&f.dropConsole, "drop-console", false, "remove console.* calls when minifying")
	cmd.Flags().BoolVar(&f.keepNames, "keep-names", false, "preserve function and class names when minifying")
	cmd.Flags().BoolVar(&f.beautify, "beautify", false, "print minified output with whitespace")
	cmd.Flags().BoolVar(&f.warnings, "warnings", false, "log minifier warnings")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the bundle to this file or directory (- for stdout)")
}

func (f *buildFlags) options() bundle.Options {
	var opts []minify.Option
	if f.noCompress {
		opts = append(opts, minify.WithoutCompress())
	} else if f.dropConsole {
		opts = append(opts, minify.WithCompress(minify.CompressOptions{DropConsole: true}))
	}
	if f.noMangle {
		opts = append(opts, minify.WithoutMangle())
	} else if f.keepNames {
		opts = append(opts, minify.WithMangle(minify.MangleOptions{KeepNames: true}))
	}
	opts = append(opts, minify.WithBeautify(f.beautify), minify.WithWarnings(f.warnings))
	return bundle.Options{Minify: f.minify, MinifyOptions: opts}
}

// buildCommand creates the "build" command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags    buildFlags
		defaults bool
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "build [module...]",
		Short: "Build a bundle from the given modules",
		Long: `Build a bundle from the named modules. Modules are concatenated in catalog
order, whatever order they are given in.

Examples:
  zbuilder build --defaults --minify -o dist/
  zbuilder build zepto.js event.js ajax.js -o zepto.custom.js
  zbuilder build --all --minify --drop-console -o -`,
		ValidArgsFunction: c.completeModules,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			opts := pipeline.Options{Modules: args, Defaults: defaults, All: all, Bundle: flags.options()}
			spinner := newSpinnerWithContext(ctx, "Building bundle from "+a.fetcher.Repo()+"...")
			spinner.Start()
			res, err := a.runner.Execute(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			if res.Bundle == nil {
				printWarning("No modules selected")
				printNextStep("List available modules", "zbuilder modules")
				return nil
			}
			a.logger.Infof("Built %s from %d of %d modules (%s)", res.Bundle.Filename, res.Stats.Selected,
				res.Stats.ModuleCount, (res.Stats.FetchTime + res.Stats.GenerateTime).Round(time.Millisecond))
			return c.emit(a, res.Bundle, flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&defaults, "defaults", false, "include the default modules")
	cmd.Flags().BoolVar(&all, "all", false, "include every module")
	return cmd
}

// emit writes the bundle and prints a summary.
func (c *CLI) emit(a *app, res *bundle.Result, output string) error {
	if output == "-" {
		_, err := fmt.Fprint(os.Stdout, res.Output())
		return err
	}

	printSuccess("Built %s", StyleHighlight.Render(res.Filename))
	printKeyValue("Modules", strings.Join(res.Modules, ", "))
	printKeyValue("Size", formatBytes(len(res.Output())))
	if res.Minify {
		printKeyValue("Original", formatBytes(len(res.Combined)))
		printKeyValue("Savings", StyleSuccess.Render(res.SavingsText()))
	}

	if output != "" {
		path, err := writeBundle(output, res)
		if err != nil {
			return err
		}
		printFile(path)
	}
	if a.cfg.Publish.Backend != blob.BackendData {
		printKeyValue("Download", StyleLink.Render(res.DownloadRef))
	} else if output == "" {
		printNextStep("Write the bundle to disk", "zbuilder build ... -o "+res.Filename)
	}
	return nil
}

// writeBundle writes res to output. An existing directory, or a path ending
// in a separator, receives the bundle under its own filename.
func writeBundle(output string, res *bundle.Result) (string, error) {
	path := output
	if strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/") {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return "", err
		}
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		path = filepath.Join(output, res.Filename)
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(res.Output()), 0o644); err != nil {
		return "", fmt.Errorf("write bundle: %w", err)
	}
	return path, nil
}
