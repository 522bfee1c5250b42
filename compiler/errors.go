package compiler

import "fmt"

// CompileError is a single diagnostic produced while compiling, formatted
// to the driver's required grammar: "[line L] Error[ at <lexeme>| at
// end]: <message>".
type CompileError struct {
	Line    int
	Lexeme  string
	AtEnd   bool
	Message string
}

func (e CompileError) Error() string {
	where := ""
	switch {
	case e.AtEnd:
		where = " at end"
	case e.Lexeme != "":
		where = fmt.Sprintf(" at '%s'", e.Lexeme)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, where, e.Message)
}
