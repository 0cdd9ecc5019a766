// internal/schema/schema.go
package schema

import "fmt"

// field descreve uma chave de um objeto: se é obrigatória, como decodificar
// o valor para dentro de T e qual default aplicar quando ausente.
// def é chamado uma vez por objeto, então defaults compostos são sempre novos.
type field[T any] struct {
	key        string
	required   bool
	nullable   bool // null explícito conta como ausente
	structural bool // ausência é StructuralError, não SchemaError
	decode     func(p string, v any, dst *T) error
	def        func(dst *T)
}

// decodeObject aplica a tabela de campos na ordem declarada; o primeiro erro
// encontrado é o reportado.
func decodeObject[T any](p string, raw any, fields []field[T], dst *T) error {
	m, err := asMapping(p, raw)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.key] = struct{}{}
		fp := join(p, f.key)

		v, present := m[f.key]
		if present && v == nil && f.nullable {
			present = false
		}
		if !present {
			switch {
			case f.structural:
				return &StructuralError{Path: fp, Detail: "missing " + f.key}
			case f.required:
				return &SchemaError{Path: fp, Expected: "required field", Actual: Missing}
			case f.def != nil:
				f.def(dst)
			}
			continue
		}
		if err := f.decode(fp, v, dst); err != nil {
			return err
		}
	}

	for _, k := range sortedKeys(m) {
		if _, ok := known[k]; !ok {
			return &SchemaError{Path: join(p, k), Expected: "no extra keys", Actual: m[k]}
		}
	}
	return nil
}

// decodeList aplica decodeItem em cada elemento, preservando a ordem.
func decodeList[E any](p string, v any, decodeItem func(p string, v any) (E, error)) ([]E, error) {
	items, err := asList(p, v)
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(items))
	for i, item := range items {
		e, err := decodeItem(index(p, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func objectDecoder[E any](fields []field[E]) func(p string, v any) (E, error) {
	return func(p string, v any) (E, error) {
		var e E
		err := decodeObject(p, v, fields, &e)
		return e, err
	}
}

// Adaptadores para montar as tabelas sem repetir o tratamento de erro.

func str[T any](minLen int, set func(*T, string)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		s, err := asString(p, v, minLen)
		if err != nil {
			return err
		}
		set(dst, s)
		return nil
	}
}

func enum[T any](allowed []string, set func(*T, string)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		s, err := asEnum(p, v, allowed)
		if err != nil {
			return err
		}
		set(dst, s)
		return nil
	}
}

func integer[T any](set func(*T, int)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		n, err := asInt(p, v)
		if err != nil {
			return err
		}
		set(dst, n)
		return nil
	}
}

func integerMin[T any](min int, set func(*T, int)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		n, err := asIntMin(p, v, min)
		if err != nil {
			return err
		}
		set(dst, n)
		return nil
	}
}

func number[T any](set func(*T, float64)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		f, err := asNumber(p, v)
		if err != nil {
			return err
		}
		set(dst, f)
		return nil
	}
}

func fraction[T any](set func(*T, float64)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		f, err := asNumberRange(p, v, 0, 1)
		if err != nil {
			return err
		}
		set(dst, f)
		return nil
	}
}

func boolean[T any](set func(*T, bool)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		b, err := asBool(p, v)
		if err != nil {
			return err
		}
		set(dst, b)
		return nil
	}
}

func args[T any](set func(*T, []string)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		a, err := asArgs(p, v)
		if err != nil {
			return err
		}
		set(dst, a)
		return nil
	}
}

func list[T, E any](decodeItem func(string, any) (E, error), set func(*T, []E)) func(string, any, *T) error {
	return func(p string, v any, dst *T) error {
		items, err := decodeList(p, v, decodeItem)
		if err != nil {
			return err
		}
		set(dst, items)
		return nil
	}
}

// CameraID identifica a câmera de um entry bruto para mensagens de erro:
// o nome quando ele é uma string não vazia, senão o índice na lista.
func CameraID(idx int, raw any) string {
	if m, err := asMapping("", raw); err == nil {
		if name, ok := m["name"].(string); ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("entry[%d]", idx)
}
