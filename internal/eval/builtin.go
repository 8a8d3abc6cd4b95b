package eval

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// builtins is the registry every new Evaluator is seeded from.
var builtins = map[string]Callable{
	"add":   builtinAdd,
	"eq":    builtinEq,
	"not":   builtinNot,
	"print": builtinPrint,
	"show":  builtinShow,
	"chr":   builtinChr,
	"cat":   builtinCat,
}

// getArg returns the n-th argument or an ArityError naming callee.
func getArg(callee string, args []Value, n int) (Value, error) {
	if n >= len(args) {
		return nil, &ArityError{Callee: callee, Index: n, Got: len(args)}
	}
	return args[n], nil
}

func intArg(callee string, args []Value, n int) (Int, error) {
	v, err := getArg(callee, args, n)
	if err != nil {
		return Int{}, err
	}
	i, ok := v.(Int)
	if !ok {
		return Int{}, &TypeMismatchError{Want: KindInt, Got: v, Context: callee}
	}
	return i, nil
}

func boolArg(callee string, args []Value, n int) (Bool, error) {
	v, err := getArg(callee, args, n)
	if err != nil {
		return false, err
	}
	b, ok := v.(Bool)
	if !ok {
		return false, &TypeMismatchError{Want: KindBool, Got: v, Context: callee}
	}
	return b, nil
}

func builtinAdd(_ *Evaluator, args []Value) (Value, error) {
	lhs, err := intArg("add", args, 0)
	if err != nil {
		return nil, err
	}
	rhs, err := intArg("add", args, 1)
	if err != nil {
		return nil, err
	}
	return NewInt(lhs.Add(rhs.Int)), nil
}

func builtinEq(_ *Evaluator, args []Value) (Value, error) {
	lhs, err := getArg("eq", args, 0)
	if err != nil {
		return nil, err
	}
	rhs, err := getArg("eq", args, 1)
	if err != nil {
		return nil, err
	}
	return Bool(Equal(lhs, rhs)), nil
}

func builtinNot(_ *Evaluator, args []Value) (Value, error) {
	b, err := boolArg("not", args, 0)
	if err != nil {
		return nil, err
	}
	return !b, nil
}

func builtinPrint(e *Evaluator, args []Value) (Value, error) {
	v, err := getArg("print", args, 0)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(e.output, Debug(v)); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return v, nil
}

func builtinShow(_ *Evaluator, args []Value) (Value, error) {
	v, err := getArg("show", args, 0)
	if err != nil {
		return nil, err
	}
	return String(Show(v)), nil
}

func builtinChr(_ *Evaluator, args []Value) (Value, error) {
	n, err := intArg("chr", args, 0)
	if err != nil {
		return nil, err
	}
	b := n.LowByte()
	if !utf8.Valid([]byte{b}) {
		return nil, &EncodingError{Byte: b}
	}
	return String([]byte{b}), nil
}

func builtinCat(_ *Evaluator, args []Value) (Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		s, ok := arg.(String)
		if !ok {
			return nil, &TypeMismatchError{Want: KindString, Got: arg, Context: "cat"}
		}
		sb.WriteString(string(s))
	}
	return String(sb.String()), nil
}

// index treats a String call target as an indexable sequence of runes.
func index(s String, args []Value) (Value, error) {
	i, err := intArg("index", args, 0)
	if err != nil {
		return nil, err
	}
	n, ok := i.Int.Int()
	if !ok || n < 0 {
		return Bool(false), nil
	}
	for _, r := range string(s) {
		if n == 0 {
			return String(string(r)), nil
		}
		n--
	}
	return Bool(false), nil
}
