package evaluator

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name string, file string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{
		Name:   name,
		File:   file,
		Line:   line,
		Column: column,
	})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// maxTraceFrames caps the frames copied into an error; runaway recursion
// would otherwise copy thousands of identical frames.
const maxTraceFrames = 32

func (e *Evaluator) stackTrace() []StackFrame {
	stack := e.CallStack
	if len(stack) == 0 {
		return nil
	}
	if len(stack) > maxTraceFrames {
		stack = stack[len(stack)-maxTraceFrames:]
	}
	frames := make([]StackFrame, len(stack))
	for i, frame := range stack {
		frames[i] = StackFrame{
			Name:   frame.Name,
			File:   frame.File,
			Line:   frame.Line,
			Column: frame.Column,
		}
	}
	return frames
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy: nil and false are falsy, everything else is truthy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	}
	return true
}
