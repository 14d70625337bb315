package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/indexer"
	"github.com/tender-barbarian/go-lockstep/internal/report"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

// open loads the configured documents into a validator.
func (a *app) open(ctx context.Context) (*validator.Validator, error) {
	return validator.Open(ctx, a.cfg, validator.WithLogger(a.logger))
}

func (a *app) format() (report.Format, error) {
	return report.ParseFormat(a.cfg.Format)
}

// newCheckCmd creates the "check" command.
func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every type marked with //lockstep:validate",
		Long:  "Check scans the Go packages under --root for types annotated with //lockstep:validate, derives their wire signatures and compares them with the introspection documents. It exits with status 1 when any type fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pkgFilter, _ := cmd.Flags().GetString("package")
			format, err := a.format()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			v, err := a.open(ctx)
			if err != nil {
				return err
			}

			idx, err := indexer.New(a.cfg.Root)
			if err != nil {
				return fmt.Errorf("creating indexer: %w", err)
			}
			a.logger.Debug("indexing", "root", a.cfg.Root)
			if err := idx.Index(); err != nil {
				return fmt.Errorf("indexing codebase: %w", err)
			}

			var r report.Report
			for _, target := range idx.Targets() {
				if pkgFilter != "" && !strings.HasPrefix(target.Package, pkgFilter) {
					continue
				}
				r.Add(report.Check(v, target))
			}
			if err := report.Write(cmd.OutOrStdout(), &r, format); err != nil {
				return err
			}
			if !r.OK() {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().String("package", "", "Only check packages whose import path has this prefix")
	return cmd
}

type located struct {
	Name      string              `json:"name" yaml:"name"`
	Part      finder.Part         `json:"part" yaml:"part"`
	Interface string              `json:"interface" yaml:"interface"`
	Source    string              `json:"source" yaml:"source"`
	Signature signature.Signature `json:"signature" yaml:"signature"`
}

// newLocateCmd creates the "locate" command.
func newLocateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <member>",
		Short: "Print the signature of a member",
		Long:  "Locate finds exactly one member across the introspection documents and prints the signature selected by --part. Ambiguous members need --interface or a configured pin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			partName, _ := cmd.Flags().GetString("part")
			iface, _ := cmd.Flags().GetString("interface")

			part, err := finder.ParsePart(partName)
			if err != nil {
				return err
			}
			format, err := a.format()
			if err != nil {
				return err
			}
			if iface == "" {
				iface, _ = a.cfg.Pin(name)
			}

			v, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := v.Finder().Resolve(name, iface, part)
			if err != nil {
				return err
			}

			out := located{Name: res.Name, Part: res.Part, Interface: res.Interface, Source: res.Source, Signature: res.Signature}
			if format != report.FormatText {
				return encode(cmd.OutOrStdout(), format, out)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s.%s %s %s\n", out.Interface, out.Name, out.Part, out.Signature)
			return err
		},
	}
	cmd.Flags().String("part", "signal", "Signature to print: args, return, signal or property")
	cmd.Flags().String("interface", "", "Interface to search (default: configured pin, else all)")
	return cmd
}

// newEquivCmd creates the "equiv" command. It needs no documents.
func newEquivCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equiv <lhs> <rhs>",
		Short: "Compare two signatures",
		Long:  "Equiv reports whether two signatures are equal once at most one pair of outer parentheses is removed from each. It exits with status 1 when they are not.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lhs, rhs := signature.Signature(args[0]), signature.Signature(args[1])
			if err := signature.Check(lhs, rhs); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				fmt.Fprintf(cmd.OutOrStdout(), "diff: %s\n", report.Diff(lhs, rhs))
				return errFailed
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "equivalent")
			return err
		},
	}
}

// newInterfacesCmd creates the "interfaces" command.
func newInterfacesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interfaces",
		Short: "List the interfaces in the introspection documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			match, _ := cmd.Flags().GetString("match")
			format, err := a.format()
			if err != nil {
				return err
			}

			v, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			refs := v.Finder().Interfaces()
			if match != "" {
				filtered := refs[:0]
				for _, r := range refs {
					if strings.HasPrefix(r.Name, match) {
						filtered = append(filtered, r)
					}
				}
				refs = filtered
			}

			if format != report.FormatText {
				return encode(cmd.OutOrStdout(), format, refs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INTERFACE\tMETHODS\tSIGNALS\tPROPERTIES")
			for _, r := range refs {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Name, r.MethodCount, r.SignalCount, r.PropertyCount)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("match", "", "Only list interfaces whose name has this prefix")
	return cmd
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format report.Format, v any) error {
	if format == report.FormatYAML {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
