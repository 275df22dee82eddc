package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// render writes v in the --format chosen. text renders the human table and
// may be nil, in which case text falls back to JSON.
func render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	switch formatFlag {
	case "json", "":
		return writeJSON(out, v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		if text == nil {
			return writeJSON(out, v)
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q: want json, yaml or text", formatFlag)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
