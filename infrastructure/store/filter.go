package store

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Lookup resolve um caminho com pontos dentro do registro
func Lookup(record Record, path string) (any, bool) {
	var current any = map[string]any(record)
	for _, part := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

// Match avalia todos os filtros (E lógico) contra o registro
func Match(record Record, filters []Filter) (bool, error) {
	for _, f := range filters {
		value, ok := Lookup(record, f.Field)
		if !ok || value == nil {
			if f.Operator == OpNotEqual {
				continue
			}
			return false, nil
		}

		cmp, err := compare(value, f.Value)
		if err != nil {
			return false, err
		}

		var matched bool
		switch f.Operator {
		case OpEqual:
			matched = cmp == 0
		case OpNotEqual:
			matched = cmp != 0
		case OpLess:
			matched = cmp < 0
		case OpLessOrEqual:
			matched = cmp <= 0
		case OpGreater:
			matched = cmp > 0
		case OpGreaterOrEqual:
			matched = cmp >= 0
		default:
			return false, fmt.Errorf("%w: operador de filtro não suportado: %q", ErrInvalid, f.Operator)
		}

		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// compare compara numericamente quando o filtro é numérico; caso contrário compara como texto
func compare(stored, wanted any) (int, error) {
	if IsNumeric(wanted) {
		a, err := cast.ToFloat64E(stored)
		if err != nil {
			return strings.Compare(cast.ToString(stored), cast.ToString(wanted)), nil
		}
		b := cast.ToFloat64(wanted)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	}

	a, err := cast.ToStringE(stored)
	if err != nil {
		return 0, fmt.Errorf("%w: valor não comparável no filtro: %v", ErrInvalid, stored)
	}
	return strings.Compare(a, cast.ToString(wanted)), nil
}

// IsNumeric indica se o valor do filtro deve ser comparado como número
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
