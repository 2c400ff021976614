package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes one line per unit in native Lisp syntax, prefixed with the
// source line number.
func (t *Tree) Format(_ context.Context, w io.Writer) error {
	for u := range t.All() {
		text := u.Text()
		if v, ok := u.Value(); ok {
			text = v.String()
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\n", u.line, text); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tree as JSON to the writer.
func (t *Tree) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(t.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(t.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree as YAML to the writer.
func (t *Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, t.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// ToMap converts the tree to plain Go data, one map per unit in line order.
func (t *Tree) ToMap() []map[string]any {
	out := make([]map[string]any, 0, t.Len())

	for u := range t.All() {
		m := map[string]any{
			"line":   u.line,
			"key":    u.Key().String(),
			"text":   u.Text(),
			"tokens": u.Len(),
		}

		if v, ok := u.Value(); ok {
			m["value"] = v.ToAny()
		}

		out = append(out, m)
	}

	return out
}
