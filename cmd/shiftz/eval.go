package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/shiftz"
	"github.com/zoobzio/shiftz/extract"
	"github.com/zoobzio/shiftz/match"
)

type evalOptions struct {
	input      string
	flagsFile  string
	def        string
	output     string
	sets       []string
	orElse     []string
	hasDefault bool
}

func newEvalCmd() *cobra.Command {
	var opts evalOptions
	cmd := &cobra.Command{
		Use:   "eval STAGE...",
		Short: "Chain expressions over a document and print the result",
		Example: `  shiftz eval 'value.order' 'value.total * 2' --input order.yaml
  echo '{"a": 1}' | shiftz eval 'value.b' --or 'value.a' --default 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasDefault = cmd.Flags().Changed("default")
			return runEval(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "Document to read (default stdin)")
	f.StringVar(&opts.flagsFile, "flags", "", "YAML file of flags injected into the pipeline")
	f.StringArrayVar(&opts.sets, "set", nil, "Call-site flag binding key=value, overriding --flags")
	f.StringArrayVar(&opts.orElse, "or", nil, "Alternative expression, tried when the stages fail")
	f.StringVar(&opts.def, "default", "", "YAML value printed when every alternative fails")
	f.StringVarP(&opts.output, "output", "o", "yaml", "Output format: yaml or msgpack")
	return cmd
}

func runEval(ctx context.Context, in io.Reader, out io.Writer, stages []string, opts evalOptions) error {
	encode, err := encoder(opts.output)
	if err != nil {
		return err
	}
	doc, err := readDocument(in, opts.input)
	if err != nil {
		return err
	}
	bindings, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	chain, err := compileChain(stages)
	if err != nil {
		return err
	}
	b := shiftz.From(chain)
	for _, source := range opts.orElse {
		alt, err := extract.Expr(source)
		if err != nil {
			return err
		}
		b = b.OrElse(alt)
	}
	if opts.hasDefault {
		var v any
		if err := yaml.Unmarshal([]byte(opts.def), &v); err != nil {
			return fmt.Errorf("error decoding default: %w", err)
		}
		b = b.Default(v)
	}
	if opts.flagsFile != "" {
		data, err := os.ReadFile(opts.flagsFile)
		if err != nil {
			return err
		}
		flags, err := shiftz.ParseFlags(data)
		if err != nil {
			return err
		}
		b = b.Then(shiftz.InjectFlags(flags))
	}
	root, err := b.Build()
	if err != nil {
		return err
	}

	pipeline, err := shiftz.NewPipeline("eval", root)
	if err != nil {
		return err
	}
	defer pipeline.Close()
	pipeline.WithRealize(true)

	result, err := pipeline.Run(ctx, doc, bindings...)
	if err != nil {
		return err
	}
	return writeDocument(out, result, encode)
}

func compileChain(stages []string) (shiftz.Transformer, error) {
	compiled := make([]any, 0, len(stages))
	for _, source := range stages {
		t, err := extract.Expr(source)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, t)
	}
	return shiftz.Then(compiled[0], compiled[1:]...)
}

func newMatchCmd() *cobra.Command {
	var input string
	var sets []string
	cmd := &cobra.Command{
		Use:   "match EXPR",
		Short: "Print whether a document matches a boolean expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			bindings, err := parseSets(sets)
			if err != nil {
				return err
			}
			m, err := match.Expr(args[0])
			if err != nil {
				return err
			}
			ok, err := m.Match(shiftz.WithFlags(cmd.Context(), bindings...), doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Document to read (default stdin)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Flag binding key=value")
	return cmd
}

func readDocument(in io.Reader, path string) (any, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(in)
	}
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}

func encoder(format string) (func(any) ([]byte, error), error) {
	switch format {
	case "yaml":
		return yaml.Marshal, nil
	case "msgpack":
		return msgpack.Marshal, nil
	}
	return nil, fmt.Errorf("unknown output format %q, want yaml or msgpack", format)
}

func writeDocument(out io.Writer, v any, encode func(any) ([]byte, error)) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// parseSets turns key=value pairs into bindings. Values are YAML scalars,
// decoded the way ParseFlags decodes a flags file.
func parseSets(sets []string) ([]shiftz.Binding, error) {
	bindings := make([]shiftz.Binding, 0, len(sets))
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", set)
		}
		flags, err := shiftz.ParseFlags(fmt.Appendf(nil, "%q: %s", key, value))
		if err != nil {
			return nil, err
		}
		v, _ := flags.Lookup(key)
		bindings = append(bindings, shiftz.Bind(key, v))
	}
	return bindings, nil
}
