package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesdev/go-ipc/internal/wire"
)

func add32(args []wire.Value) ([]wire.Value, error) {
	return []wire.Value{wire.Int32Value(args[0].Int32() + args[1].Int32())}, nil
}

func add64(args []wire.Value) ([]wire.Value, error) {
	return []wire.Value{wire.Float64Value(args[0].Float64() + args[1].Float64())}, nil
}

func buildRegistry() *Registry {
	calc := NewCollection("Calculator")
	calc.Register("add", []wire.Kind{wire.KindInt32, wire.KindInt32}, add32)
	calc.Register("add", []wire.Kind{wire.KindFloat64, wire.KindFloat64}, add64)
	r := New()
	r.Add(calc)
	return r
}

func TestDispatchResolvesOverloadByArgumentKind(t *testing.T) {
	r := buildRegistry()

	values, err := Dispatch(r, wire.FunctionCall{
		ClassName:    "Calculator",
		FunctionName: "add",
		Arguments:    []wire.Value{wire.Int32Value(2), wire.Int32Value(3)},
	})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, int32(5), values[0].Int32())

	values, err = Dispatch(r, wire.FunctionCall{
		ClassName:    "Calculator",
		FunctionName: "add",
		Arguments:    []wire.Value{wire.Float64Value(1.5), wire.Float64Value(2.5)},
	})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, 4.0, values[0].Float64())
}

func TestDispatchUnknownClass(t *testing.T) {
	r := buildRegistry()
	_, err := Dispatch(r, wire.FunctionCall{ClassName: "Missing", FunctionName: "add"})
	require.Error(t, err)
	assert.Equal(t, "Class 'Missing' is not registered.", err.Error())
}

func TestDispatchUnknownFunction(t *testing.T) {
	r := buildRegistry()
	_, err := Dispatch(r, wire.FunctionCall{
		ClassName:    "Calculator",
		FunctionName: "subtract",
		Arguments:    []wire.Value{wire.Int32Value(1), wire.Int32Value(2)},
	})
	require.Error(t, err)
	assert.Equal(t, "Function 'subtract' not found in class 'Calculator'.", err.Error())
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	calc := NewCollection("Calculator")
	calc.Register("boom", nil, func(args []wire.Value) ([]wire.Value, error) {
		panic("handler exploded")
	})
	r := New()
	r.Add(calc)

	_, err := Dispatch(r, wire.FunctionCall{ClassName: "Calculator", FunctionName: "boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}
