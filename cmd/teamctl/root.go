package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teamctl",
		Short:         "Offline tooling for the field-sales team hierarchy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newNormalizeCmd(), newPoolCmd(), newTokenCmd())
	return root
}

// writeOutput prints v as indented JSON or as YAML. YAML goes through the JSON
// form so both outputs share the same keys.
func writeOutput(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "", "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml":
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(integralNumbers(generic)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, expected json or yaml", format)
	}
}

// integralNumbers turns whole float64 values back into int64 so ids are not
// printed in exponent form.
func integralNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = integralNumbers(item)
		}
	case []any:
		for i, item := range t {
			t[i] = integralNumbers(item)
		}
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
	}
	return v
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("a file path is required")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
