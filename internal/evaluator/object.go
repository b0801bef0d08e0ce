package evaluator

type ObjectType string

const (
	NUMBER_OBJ       = "NUMBER"
	BOOLEAN_OBJ      = "BOOLEAN"
	STRING_OBJ       = "STRING"
	NIL_OBJ          = "NIL"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"

	// Runtime type names, as reported by type(x)
	RUNTIME_TYPE_NUMBER   = "number"
	RUNTIME_TYPE_BOOLEAN  = "boolean"
	RUNTIME_TYPE_STRING   = "string"
	RUNTIME_TYPE_NIL      = "nil"
	RUNTIME_TYPE_FUNCTION = "function"
)

// Object is a runtime value. Inspect returns the canonical text that print
// writes for the value.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// TypeName returns the user-facing kind name of a value.
func TypeName(obj Object) string {
	switch obj.Type() {
	case NUMBER_OBJ:
		return RUNTIME_TYPE_NUMBER
	case BOOLEAN_OBJ:
		return RUNTIME_TYPE_BOOLEAN
	case STRING_OBJ:
		return RUNTIME_TYPE_STRING
	case NIL_OBJ:
		return RUNTIME_TYPE_NIL
	case FUNCTION_OBJ, BUILTIN_OBJ:
		return RUNTIME_TYPE_FUNCTION
	}
	return string(obj.Type())
}
