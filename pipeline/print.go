package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Print writes the proposed interface configuration. Devices without a
// description are left out.
func Print(w io.Writer, plan *Plan, format Format) error {
	switch format {
	case FormatText, "":
		for _, u := range plan.Updates {
			if _, err := fmt.Fprintln(w, u.ConfigLines()); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		out, err := json.MarshalIndent(plan.Updates, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(plan.Updates)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
