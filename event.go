package formz

// Valuer is implemented by UI events that carry the current input value.
type Valuer interface {
	Value() any
}

// EventTarget is the element an InputEvent originated from.
type EventTarget struct {
	Value any `json:"value"`
}

// InputEvent mirrors a browser input event: the value lives on the target.
type InputEvent struct {
	Target EventTarget `json:"target"`
}

// Value implements Valuer.
func (e InputEvent) Value() any {
	return e.Target.Value
}

// unwrapEvent extracts the value from an event-like input. Inputs that are
// not events are returned unchanged.
func unwrapEvent(input any) any {
	switch e := input.(type) {
	case *InputEvent:
		if e == nil {
			return nil
		}
		return e.Target.Value
	case Valuer:
		return e.Value()
	case map[string]any:
		if target, ok := e["target"].(map[string]any); ok {
			if v, ok := target["value"]; ok {
				return v
			}
		}
	}
	return input
}
