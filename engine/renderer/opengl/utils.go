package opengl

import (
	"github.com/go-gl/gl/v4.6-compatibility/gl"
)

func ConditionalOperator[T any](condition bool, ifTrue, ifFalse T) T {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// ErrorString names a glGetError code, with a description when extended
// is set.
func ErrorString(code uint32, extended bool) string {
	switch code {
	case gl.NO_ERROR:
		return ConditionalOperator(!extended, "GL_NO_ERROR", "GL_NO_ERROR No error has been recorded")
	case gl.INVALID_ENUM:
		return ConditionalOperator(!extended, "GL_INVALID_ENUM", "GL_INVALID_ENUM An unacceptable value is specified for an enumerated argument")
	case gl.INVALID_VALUE:
		return ConditionalOperator(!extended, "GL_INVALID_VALUE", "GL_INVALID_VALUE A numeric argument is out of range")
	case gl.INVALID_OPERATION:
		return ConditionalOperator(!extended, "GL_INVALID_OPERATION", "GL_INVALID_OPERATION The specified operation is not allowed in the current state")
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return ConditionalOperator(!extended, "GL_INVALID_FRAMEBUFFER_OPERATION", "GL_INVALID_FRAMEBUFFER_OPERATION The framebuffer object is not complete")
	case gl.OUT_OF_MEMORY:
		return ConditionalOperator(!extended, "GL_OUT_OF_MEMORY", "GL_OUT_OF_MEMORY There is not enough memory left to execute the command")
	case gl.STACK_UNDERFLOW:
		return ConditionalOperator(!extended, "GL_STACK_UNDERFLOW", "GL_STACK_UNDERFLOW An operation would cause an internal stack to underflow")
	case gl.STACK_OVERFLOW:
		return ConditionalOperator(!extended, "GL_STACK_OVERFLOW", "GL_STACK_OVERFLOW An operation would cause an internal stack to overflow")
	default:
		return ConditionalOperator(!extended, "GL_UNKNOWN_ERROR", "GL_UNKNOWN_ERROR Unrecognized error code")
	}
}
