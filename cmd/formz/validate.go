package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
)

type validateFlags struct {
	values  string
	require []string
	timeout time.Duration
}

func newValidateCmd() *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a values file against required fields",
		Long: `Load a JSON or YAML values file into a form store, run validation once
and print every field error by path.

Required fields are dotted paths, e.g. --require name,address.city,items.0.sku

Exits non-zero when the form is invalid.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return runValidate(ctx, cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.values, "values", getEnv("FORMZ_VALUES", ""), "Values file (JSON or YAML)")
	cmd.Flags().StringSliceVar(&f.require, "require", nil, "Required field paths")
	cmd.Flags().DurationVar(&f.timeout, "timeout", getEnvDuration("FORMZ_TIMEOUT", 2*time.Second), "Validator timeout")
	return cmd
}

func runValidate(ctx context.Context, w io.Writer, f validateFlags) error {
	if f.values == "" {
		return fmt.Errorf("--values is required")
	}
	data, err := os.ReadFile(f.values)
	if err != nil {
		return fmt.Errorf("failed to read values: %w", err)
	}
	values, err := formz.DecodeValues(codecFor(f.values), data)
	if err != nil {
		return fmt.Errorf("failed to decode values: %w", err)
	}

	store := formz.New(requireFields(f.require), formz.WithTimeout(f.timeout)).SyncMode()
	if err := store.Start(ctx); err != nil {
		return err
	}
	defer store.Close()

	store.Initialize(values)
	store.Process(ctx)

	if err := store.LastError(); err != nil {
		return fmt.Errorf("validator failed: %w", err)
	}

	st := store.State()
	messages := flattenErrors(st.Errors)
	for _, m := range messages {
		fmt.Fprintln(w, m)
	}
	if !st.Valid {
		return fmt.Errorf("%d invalid field(s)", len(messages))
	}
	fmt.Fprintln(w, "ok")
	return nil
}

// requireFields reports "required" at every path whose value is nil or an
// empty string.
func requireFields(paths []string) formz.ValidatorFunc {
	return func(_ context.Context, values any) (map[string]any, error) {
		var tree any = map[string]any{}
		for _, p := range paths {
			var msg any
			if v := formz.DeepGetString(values, p); v == nil || v == "" {
				msg = "required"
			}
			tree = formz.DeepSet(tree, formz.ParsePath(p), msg)
		}
		errs, ok := tree.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("required paths must start with a field name")
		}
		return errs, nil
	}
}

// flattenErrors lists the truthy leaves of an error tree as "path: message",
// sorted by path.
func flattenErrors(errs map[string]any) []string {
	var out []string
	var walk func(node any, path formz.Path)
	walk = func(node any, path formz.Path) {
		switch n := node.(type) {
		case map[string]any:
			for k, v := range n {
				walk(v, append(path[:len(path):len(path)], k))
			}
		case []any:
			for i, v := range n {
				walk(v, append(path[:len(path):len(path)], i))
			}
		default:
			if formz.HasError(n) {
				out = append(out, fmt.Sprintf("%s: %v", path, n))
			}
		}
	}
	walk(errs, nil)
	sort.Strings(out)
	return out
}
