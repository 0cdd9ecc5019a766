// internal/schema/errors.go
package schema

import (
	"errors"
	"fmt"
)

// SchemaError: campo obrigatório ausente, tipo errado, fora da faixa ou
// valor fora do enum.
type SchemaError struct {
	Camera   string
	Path     string
	Expected string
	Actual   any
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("camera %s: %s: expected %s, got %s", e.Camera, e.Path, e.Expected, describe(e.Actual))
}

// PatternError: identificador fora do charset permitido.
type PatternError struct {
	Camera  string
	Path    string
	Pattern string
	Value   string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("camera %s: %s can only contain the characters %s, got %s", e.Camera, e.Path, e.Pattern, e.Value)
}

// StructuralError: estrutura aninhada malformada (objeto que não é mapa,
// ponto sem coordenada, etc).
type StructuralError struct {
	Camera string
	Path   string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("camera %s: %s: malformed structure: %s", e.Camera, e.Path, e.Detail)
}

type missingValue struct{}

func (missingValue) String() string { return "nothing" }

// Missing é o Actual de um SchemaError para campo obrigatório ausente.
var Missing any = missingValue{}

// Identify preenche a câmera em qualquer um dos erros do schema.
func Identify(err error, camera string) error {
	var se *SchemaError
	var pe *PatternError
	var st *StructuralError
	switch {
	case errors.As(err, &se):
		se.Camera = camera
	case errors.As(err, &pe):
		pe.Camera = camera
	case errors.As(err, &st):
		st.Camera = camera
	}
	return err
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case missingValue:
		return x.String()
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v (%T)", x, x)
	}
}
