/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudwego/peephole"
	"github.com/cloudwego/peephole/debug"
	"github.com/cloudwego/peephole/internal/opt"
	"github.com/cloudwego/peephole/internal/opts"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type peepholeOptions struct {
	output     string
	passes     []string
	verify     bool
	trace      bool
	logLevel   string
	listPasses bool
	stats      bool
	flags      *pflag.FlagSet
}

func newPeepholeCommand() *cobra.Command {
	o := peepholeOptions{}

	cmd := &cobra.Command{
		Use:           "peephole [OPTIONS] FILE|-",
		Short:         "Run peephole optimizations over textual IR.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.flags = cmd.Flags()
			return runPeephole(cmd, o, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "", "Write the optimized IR to this file instead of stdout")
	flags.StringSliceVar(&o.passes, "passes", nil, "Comma separated list of passes to run instead of the standard pipeline")
	flags.BoolVar(&o.verify, "verify", opts.Verify, "Verify the IR after every pass")
	flags.BoolVar(&o.trace, "trace", opts.Trace, "Log every pass run on every function")
	flags.StringVarP(&o.logLevel, "log-level", "l", opts.LogLevel.String(), `Set the logging level ("debug"|"info"|"warn"|"error"|"fatal")`)
	flags.BoolVar(&o.listPasses, "list-passes", false, "Print the registered passes and quit")
	flags.BoolVar(&o.stats, "stats", false, "Print rewriter statistics to stderr when done")
	return cmd
}

func runPeephole(cmd *cobra.Command, o peepholeOptions, args []string) error {
	lvl, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	logrus.SetLevel(lvl)
	peephole.SetLogLevel(lvl)

	if o.listPasses {
		listPasses(cmd.OutOrStdout())
		return nil
	}
	if len(args) == 0 {
		return errors.New("no input file, use \"-\" to read from stdin")
	}

	src, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	/* build the option list */
	options := []peephole.Option{
		peephole.WithVerify(o.verify),
		peephole.WithTrace(o.trace),
	}
	if o.flags != nil && o.flags.Changed("passes") {
		for _, name := range o.passes {
			if name == "" {
				return errors.Errorf("empty pass name in %q", o.flags.Lookup("passes").Value.String())
			}
		}
		options = append(options, peephole.WithPasses(o.passes...))
	}

	out, changed, err := peephole.OptimizeText(src, options...)
	if err != nil {
		return errors.Wrapf(err, "%s", args[0])
	}
	logrus.WithField("file", args[0]).Debugf("optimization finished, changed = %v", changed)

	if err = writeOutput(cmd.OutOrStdout(), o.output, out); err != nil {
		return err
	}
	if o.stats {
		st := debug.GetStats()
		fmt.Fprintf(cmd.ErrOrStderr(), "functions: %d\ndivisions removed: %d\nuses redirected: %d\n",
			st.Rewriter.Funcs, st.Rewriter.Divisions, st.Rewriter.Uses)
	}
	return nil
}

func listPasses(w io.Writer) {
	std := make(map[string]bool)
	for _, name := range opt.StandardPasses() {
		std[name] = true
	}
	for _, p := range opt.Passes() {
		mark := " "
		if std[p.Name] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-16s %s\n", mark, p.Name, p.Desc)
	}
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		buf, err := io.ReadAll(stdin)
		return string(buf), errors.Wrap(err, "read stdin")
	}
	buf, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", name)
	}
	return string(buf), nil
}

func writeOutput(stdout io.Writer, name string, text string) error {
	if name == "" {
		_, err := io.WriteString(stdout, text)
		return errors.Wrap(err, "write stdout")
	}
	return errors.Wrapf(os.WriteFile(name, []byte(text), 0644), "write %s", name)
}
