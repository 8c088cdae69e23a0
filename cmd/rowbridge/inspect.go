package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/rowbridge/pkg/inspector"
	jsonpool "github.com/ajitpratap0/rowbridge/pkg/json"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

func newInspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <type-string>",
		Short: "Show how a type is presented to the host engine",
		Long: `Parse a host engine type string and print its inspector rendering, the
Arrow type it maps to and, for struct types, the field catalog.

Example:
  rowbridge inspect 'struct<id:bigint,name:string,tags:struct<k:string,v:int>>'
  rowbridge inspect --format json 'struct<id:bigint,payload:binary>'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")
	return cmd
}

type inspectReport struct {
	Type      string         `json:"type"`
	Category  string         `json:"category"`
	Inspector string         `json:"inspector"`
	Arrow     string         `json:"arrow"`
	Fields    []inspectField `json:"fields,omitempty"`
}

type inspectField struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Arrow    string `json:"arrow"`
	Nullable bool   `json:"nullable"`
}

func buildReport(typeString string) (*inspectReport, error) {
	t, err := types.ParseTypeString(typeString)
	if err != nil {
		return nil, err
	}
	insp, err := inspector.New(t)
	if err != nil {
		return nil, err
	}
	dt, err := types.ToArrowType(t)
	if err != nil {
		return nil, err
	}

	report := &inspectReport{
		Type:      insp.TypeName(),
		Category:  insp.Category().String(),
		Inspector: insp.String(),
		Arrow:     dt.String(),
	}
	si, ok := insp.(*inspector.StructInspector)
	if !ok {
		return report, nil
	}
	schema, err := types.ToArrowSchema(si.Descriptor())
	if err != nil {
		return nil, err
	}
	report.Fields = make([]inspectField, len(si.Fields()))
	for i, f := range si.Fields() {
		af := schema.Field(i)
		report.Fields[i] = inspectField{
			ID:       f.FieldID(),
			Name:     f.FieldName(),
			Type:     f.FieldInspector().TypeName(),
			Arrow:    arrowTypeName(af.Type),
			Nullable: af.Nullable,
		}
	}
	return report, nil
}

func arrowTypeName(dt arrow.DataType) string {
	if dt.ID() == arrow.STRUCT {
		return dt.Name()
	}
	return dt.String()
}

func runInspect(w io.Writer, typeString, format string) error {
	report, err := buildReport(typeString)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := jsonpool.MarshalIndent(report, "", "  ")
		if err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "failed to encode inspect report")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text", "":
	default:
		return rowerrors.New(rowerrors.ErrorTypeConfig, "unsupported inspect format: "+format)
	}

	fmt.Fprintf(w, "type:      %s\n", report.Type)
	fmt.Fprintf(w, "category:  %s\n", report.Category)
	fmt.Fprintf(w, "inspector: %s\n", report.Inspector)
	fmt.Fprintf(w, "arrow:     %s\n", report.Arrow)
	if report.Category != types.CategoryStruct.String() {
		return nil
	}
	fmt.Fprintln(w, "fields:")
	for _, f := range report.Fields {
		fmt.Fprintf(w, "  %-4d %-20s %-10s %s\n", f.ID, f.Name, f.Type, f.Arrow)
	}
	return nil
}
