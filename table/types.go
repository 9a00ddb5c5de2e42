package table

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/formz"
)

// Display layouts.
const (
	DateLayout     = "2006/01/02"
	DateTimeLayout = "2006/01/02\n15:04:05"
)

// inputLayouts are the string forms accepted by Date and DateTime. Layouts
// without a zone are read in local time.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Date formats timestamps as 2006/01/02.
var Date ColumnType = TypeFunc(func(context.Context) (TypeDef, error) {
	return TypeDef{Format: timeFormat(DateLayout)}, nil
})

// DateTime formats timestamps as 2006/01/02 and 15:04:05 on two lines.
var DateTime ColumnType = TypeFunc(func(context.Context) (TypeDef, error) {
	return TypeDef{Format: timeFormat(DateTimeLayout)}, nil
})

// UnixTime formats positive epoch seconds like DateTime.
var UnixTime ColumnType = TypeFunc(func(context.Context) (TypeDef, error) {
	return TypeDef{Format: func(v any, _ any) any {
		secs, ok := toFloat(v)
		if !ok || math.IsInf(secs, 0) || secs <= 0 {
			return ""
		}
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)).Local().Format(DateTimeLayout)
	}}, nil
})

func timeFormat(layout string) FormatFunc {
	return func(v any, _ any) any {
		t, ok := parseTime(v)
		if !ok {
			return ""
		}
		return t.Local().Format(layout)
	}
}

// parseTime reads time.Time values, date strings and epoch milliseconds.
func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range inputLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	ms, ok := toFloat(v)
	if !ok || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// toFloat converts numeric values and numeric strings.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// truthy mirrors loose boolean conversion of a cell value.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// SwitchOptions configures a Switch column.
type SwitchOptions struct {
	// OnChange is called when a cell is toggled. The cell stays pending
	// until it returns.
	OnChange func(ctx context.Context, row any) error

	// IsChecked maps the raw value to the switch position. Default: truthiness.
	IsChecked func(value any) bool

	// IsDisabled disables the switch for a row.
	IsDisabled func(row any) bool

	// Labels shown inside the switch. Default "是" and "否".
	CheckedLabel   string
	UncheckedLabel string

	// RowKey identifies rows so re-renders of one record share the pending
	// flag. Default: the row's "id" field, then the identity of map and
	// pointer rows.
	RowKey func(row any) string
}

// switchState is the pending flag shared by every render of one record.
type switchState struct {
	mu      sync.Mutex
	pending bool
}

// SwitchCell is a rendered switch bound to the row it was rendered for.
type SwitchCell struct {
	state    *switchState
	row      any
	onChange func(ctx context.Context, row any) error
}

// Row returns the row the cell was rendered for.
func (c *SwitchCell) Row() any {
	return c.row
}

// Pending reports whether a toggle is in flight.
func (c *SwitchCell) Pending() bool {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.pending
}

// Toggle marks the cell pending, calls OnChange with the cell's row and
// clears the pending flag when it returns.
func (c *SwitchCell) Toggle(ctx context.Context) error {
	c.state.mu.Lock()
	c.state.pending = true
	c.state.mu.Unlock()

	defer func() {
		c.state.mu.Lock()
		c.state.pending = false
		c.state.mu.Unlock()
	}()

	if c.onChange == nil {
		return nil
	}
	return c.onChange(ctx, c.row)
}

// defaultRowKey keys rows by "id", then by the address of map and pointer
// rows. Other rows get no key and never share state.
func defaultRowKey(row any) (string, bool) {
	if id := formz.DeepGet(row, formz.Path{"id"}); id != nil {
		return "id:" + enumKey(id), true
	}
	rv := reflect.ValueOf(row)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		return fmt.Sprintf("ptr:%x", rv.Pointer()), true
	}
	return "", false
}

// Switch renders a boolean cell as a toggle.
func Switch(opts SwitchOptions) ColumnType {
	return TypeFunc(func(context.Context) (TypeDef, error) {
		isChecked := opts.IsChecked
		if isChecked == nil {
			isChecked = truthy
		}
		checkedLabel, uncheckedLabel := opts.CheckedLabel, opts.UncheckedLabel
		if checkedLabel == "" {
			checkedLabel = "是"
		}
		if uncheckedLabel == "" {
			uncheckedLabel = "否"
		}
		keyOf := defaultRowKey
		if opts.RowKey != nil {
			keyOf = func(row any) (string, bool) {
				return "key:" + opts.RowKey(row), true
			}
		}

		var mu sync.Mutex
		states := make(map[string]*switchState)
		cellFor := func(row any) *SwitchCell {
			cell := &SwitchCell{row: row, onChange: opts.OnChange}
			key, ok := keyOf(row)
			if !ok {
				cell.state = &switchState{}
				return cell
			}
			mu.Lock()
			defer mu.Unlock()
			state, found := states[key]
			if !found {
				state = &switchState{}
				states[key] = state
			}
			cell.state = state
			return cell
		}

		return TypeDef{
			Format: func(v any, _ any) any {
				return isChecked(v)
			},
			Render: func(v any, row any) *Node {
				checked, _ := v.(bool)
				label := uncheckedLabel
				if checked {
					label = checkedLabel
				}
				disabled := false
				if opts.IsDisabled != nil {
					disabled = opts.IsDisabled(row)
				}
				return &Node{
					Kind:     NodeSwitch,
					Text:     label,
					Value:    checked,
					Checked:  checked,
					Disabled: disabled,
					Switch:   cellFor(row),
				}
			},
		}, nil
	})
}
