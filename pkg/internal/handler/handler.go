package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	directiveType = reflect.TypeOf(core.Continue)
)

// Handler holds metadata about a registered process function.
type Handler struct {
	Fn               reflect.Value
	ArgsType         reflect.Type
	HasContext       bool
	ReturnsDirective bool
}

// NewHandler creates a Handler from a function.
// The function must have signature func(ctx context.Context, args T) R,
// func(args T) R or func(ctx context.Context) R, where R is core.Directive
// or error.
func NewHandler(fn any) (*Handler, error) {
	if fn == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	fnVal := reflect.ValueOf(fn)

	// Check for typed nil (e.g., var fn func() = nil)
	if !fnVal.IsValid() || (fnVal.Kind() == reflect.Func && fnVal.IsNil()) {
		return nil, fmt.Errorf("handler function cannot be nil")
	}

	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function")
	}

	handler := &Handler{Fn: fnVal}

	numIn := fnType.NumIn()
	if numIn < 1 || numIn > 2 {
		return nil, fmt.Errorf("handler must have 1-2 arguments")
	}

	argIdx := 0
	if fnType.In(0).Implements(contextType) {
		handler.HasContext = true
		argIdx = 1
	} else if numIn == 2 {
		return nil, fmt.Errorf("handler with 2 arguments must take context.Context first")
	}

	if argIdx < numIn {
		handler.ArgsType = fnType.In(argIdx)
	}

	if fnType.NumOut() != 1 {
		return nil, fmt.Errorf("handler must return core.Directive or error")
	}
	switch out := fnType.Out(0); {
	case out == directiveType:
		handler.ReturnsDirective = true
	case out.Implements(errorType):
	default:
		return nil, fmt.Errorf("handler must return core.Directive or error, not %s", out)
	}

	return handler, nil
}

// Decode unmarshals a stored payload into the handler's argument type.
// A handler without an argument ignores data and decodes to nil.
func (h *Handler) Decode(data string) (any, error) {
	if h.ArgsType == nil {
		return nil, nil
	}
	argVal := reflect.New(h.ArgsType)
	if err := json.Unmarshal([]byte(data), argVal.Interface()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	return argVal.Elem().Interface(), nil
}

// Call runs the handler with args. A value whose type differs from the
// argument type is converted through JSON. For an error-returning function
// the directive is Continue and the function's error is returned as is.
func (h *Handler) Call(ctx context.Context, args any) (core.Directive, error) {
	// a zero Handler has no function to call
	if !h.Fn.IsValid() || h.Fn.IsNil() {
		return core.Pause, fmt.Errorf("handler function is nil or invalid")
	}

	var callArgs []reflect.Value

	if h.HasContext {
		callArgs = append(callArgs, reflect.ValueOf(ctx))
	}

	if h.ArgsType != nil {
		argsVal, err := h.convert(args)
		if err != nil {
			return core.Pause, err
		}
		callArgs = append(callArgs, argsVal)
	}

	results := h.Fn.Call(callArgs)

	if h.ReturnsDirective {
		return results[0].Interface().(core.Directive), nil
	}
	if !results[0].IsNil() {
		return core.Continue, results[0].Interface().(error)
	}
	return core.Continue, nil
}

func (h *Handler) convert(args any) (reflect.Value, error) {
	if args == nil {
		return reflect.Zero(h.ArgsType), nil
	}
	argsVal := reflect.ValueOf(args)
	if argsVal.Type() == h.ArgsType {
		return argsVal, nil
	}
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to marshal args: %w", err)
	}
	argPtr := reflect.New(h.ArgsType)
	if err := json.Unmarshal(argsBytes, argPtr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	return argPtr.Elem(), nil
}
