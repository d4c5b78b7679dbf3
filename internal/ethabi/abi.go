// Package ethabi wraps go-ethereum's ABI machinery behind inline
// parameter signatures, the canonical wire encoding consumed by the
// execution gateway and the settlement contract.
package ethabi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/layer-3/rangda/core"
)

// ParseSignature turns an inline parameter list such as
//
//	"bytes4, address, uint256, bytes"
//	"(bool isRequired, string[] requiredNetworks, (string caip2Id, uint amount)[] tokens)"
//
// into abi.Arguments. Tuples may be nested and carry field names;
// "uint"/"int" normalize to their 256-bit forms.
func ParseSignature(signature string) (abi.Arguments, error) {
	params, err := splitTopLevel(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEncoding, err)
	}

	args := make(abi.Arguments, 0, len(params))
	for _, p := range params {
		m, err := parseParam(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrEncoding, err)
		}
		t, err := abi.NewType(m.Type, "", m.Components)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid type %q: %v", core.ErrEncoding, m.Type, err)
		}
		args = append(args, abi.Argument{Name: m.Name, Type: t})
	}
	return args, nil
}

// Pack encodes values against an inline parameter signature. Encoding
// is deterministic: the same signature and logical values always yield
// byte-identical output.
func Pack(signature string, values ...interface{}) ([]byte, error) {
	args, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(args) != len(values) {
		return nil, fmt.Errorf("%w: signature %q expects %d values, got %d", core.ErrEncoding, signature, len(args), len(values))
	}
	for i, arg := range args {
		if err := checkWidth(arg.Type, values[i]); err != nil {
			return nil, err
		}
	}

	data, err := args.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEncoding, err)
	}
	return data, nil
}

// Unpack decodes data previously encoded against the signature.
func Unpack(signature string, data []byte) ([]interface{}, error) {
	args, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	values, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEncoding, err)
	}
	return values, nil
}

// checkWidth rejects integers that exceed their declared bit width
// before they reach the packer, which would otherwise truncate
// silently.
func checkWidth(t abi.Type, value interface{}) error {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		n, ok := value.(*big.Int)
		if !ok {
			return nil // native int sizes are width-safe by construction
		}
		if n.Sign() < 0 && t.T == abi.UintTy {
			return fmt.Errorf("%w: negative value for %s", core.ErrEncoding, t.String())
		}
		bits := n.BitLen()
		if t.T == abi.IntTy {
			bits++
		}
		if bits > t.Size {
			return fmt.Errorf("%w: value %s overflows %s", core.ErrEncoding, n.String(), t.String())
		}
	case abi.SliceTy, abi.ArrayTy:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return fmt.Errorf("%w: %s requires a slice value", core.ErrEncoding, t.String())
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkWidth(*t.Elem, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case abi.TupleTy:
		rv := reflect.Indirect(reflect.ValueOf(value))
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %s requires a struct value", core.ErrEncoding, t.String())
		}
		for i, elem := range t.TupleElems {
			field := rv.FieldByName(abi.ToCamelCase(t.TupleRawNames[i]))
			if !field.IsValid() {
				return fmt.Errorf("%w: struct missing field for tuple component %q", core.ErrEncoding, t.TupleRawNames[i])
			}
			if err := checkWidth(*elem, field.Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseParam(param string) (abi.ArgumentMarshaling, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return abi.ArgumentMarshaling{}, fmt.Errorf("empty parameter")
	}

	if strings.HasPrefix(param, "(") {
		depth := 0
		closing := -1
		for i, r := range param {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					closing = i
				}
			}
			if closing >= 0 {
				break
			}
		}
		if closing < 0 {
			return abi.ArgumentMarshaling{}, fmt.Errorf("unbalanced parentheses in %q", param)
		}

		elems, err := splitTopLevel(param[1:closing])
		if err != nil {
			return abi.ArgumentMarshaling{}, err
		}
		components := make([]abi.ArgumentMarshaling, 0, len(elems))
		for i, e := range elems {
			c, err := parseParam(e)
			if err != nil {
				return abi.ArgumentMarshaling{}, err
			}
			if c.Name == "" {
				c.Name = fmt.Sprintf("field%d", i)
			}
			components = append(components, c)
		}

		rest := strings.TrimSpace(param[closing+1:])
		suffix := ""
		for strings.HasPrefix(rest, "[]") {
			suffix += "[]"
			rest = strings.TrimSpace(rest[2:])
		}
		return abi.ArgumentMarshaling{Name: rest, Type: "tuple" + suffix, Components: components}, nil
	}

	fields := strings.Fields(param)
	m := abi.ArgumentMarshaling{Type: normalizeType(fields[0])}
	if len(fields) > 2 {
		return abi.ArgumentMarshaling{}, fmt.Errorf("cannot parse parameter %q", param)
	}
	if len(fields) == 2 {
		m.Name = fields[1]
	}
	return m, nil
}

// splitTopLevel splits on commas outside any parentheses.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	parts = append(parts, s[start:])

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty parameter list")
	}
	return out, nil
}

func normalizeType(t string) string {
	switch {
	case t == "uint" || strings.HasPrefix(t, "uint["):
		return "uint256" + t[4:]
	case t == "int" || strings.HasPrefix(t, "int["):
		return "int256" + t[3:]
	}
	return t
}
