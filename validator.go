package formz

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator returns a ValidatorFunc that decodes form values into T
// and checks its `validate` struct tags. Failed fields are reported at their
// json path with the failing tag as the error, e.g. "required" or "min=3".
//
// Example:
//
//	type signup struct {
//	    Name  string `json:"name" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	store := formz.New(formz.StructValidator[signup]())
func StructValidator[T any]() ValidatorFunc {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return func(ctx context.Context, values any) (map[string]any, error) {
		var target T
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &target); err != nil {
			return nil, err
		}

		err = v.StructCtx(ctx, target)
		if err == nil {
			return map[string]any{}, nil
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}

		var tree any = map[string]any{}
		for _, fe := range fieldErrs {
			msg := fe.Tag()
			if p := fe.Param(); p != "" {
				msg += "=" + p
			}
			tree = DeepSet(tree, namespacePath(fe.Namespace()), msg)
		}
		out, _ := tree.(map[string]any)
		return out, nil
	}
}

// namespacePath converts a validator namespace such as "Form.items[0].name"
// into Path{"items", 0, "name"}. The root type name is dropped.
func namespacePath(ns string) Path {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	var path Path
	for _, part := range strings.Split(ns, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				path = append(path, part)
				break
			}
			if open > 0 {
				path = append(path, part[:open])
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				path = append(path, part[open:])
				break
			}
			key := part[open+1 : open+end]
			if idx, err := strconv.Atoi(key); err == nil && idx >= 0 {
				path = append(path, idx)
			} else {
				path = append(path, key)
			}
			part = part[open+end+1:]
		}
	}
	return path
}
