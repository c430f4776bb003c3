// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import "fmt"

// From classifies a native Go value into a Value, realizing the total
// classification function of spec §4.5 for the common case of callers
// building up composite values from plain Go literals (nil, bool, int,
// int8/16/32/64, uint, uint32, float32/64, string,
// map[string]interface{}, map[interface{}]interface{}, []interface{})
// the way Reset/Swap callers do in the end-to-end scenarios (spec §8,
// S1-S5). Values that already satisfy Value pass straight through, so
// Keyword, Symbol, UUID, Timestamp, BigDecimal, Ratio, Map, Vector,
// List and Set literals built with their constructors compose with
// native literals in the same tree.
//
// From never fails on a value of one of the types listed above. Every
// other Go type returns *UnsupportedKindError, including uint8, uint16,
// uint64, typed slices and maps such as []string or map[string]int,
// channels and funcs.
func From(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case map[string]interface{}:
		return fromStringMap(v)
	case map[interface{}]interface{}:
		return fromAnyMap(v)
	case []interface{}:
		return fromSlice(v)
	default:
		return nil, &UnsupportedKindError{Description: fmt.Sprintf("%T", x)}
	}
}

func fromStringMap(m map[string]interface{}) (Value, error) {
	entries := make([]MapEntry, 0, len(m))
	for k, v := range m {
		vv, err := From(v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: String(k), Val: vv})
	}
	return NewMap(entries...), nil
}

func fromAnyMap(m map[interface{}]interface{}) (Value, error) {
	entries := make([]MapEntry, 0, len(m))
	for k, v := range m {
		kk, err := From(k)
		if err != nil {
			return nil, err
		}
		vv, err := From(v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: kk, Val: vv})
	}
	return NewMap(entries...), nil
}

func fromSlice(items []interface{}) (Value, error) {
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := From(it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return NewVector(out...), nil
}
