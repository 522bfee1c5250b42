// Package compiler implements a single-pass Pratt parser that compiles
// Lox source text directly into bytecode — no intermediate AST. It
// simultaneously resolves lexical scopes (locals live at known value-stack
// slots; everything else is a global looked up by interned name) while it
// emits.
package compiler

import (
	"strconv"

	"golox/scanner"
	"golox/table"
	"golox/token"
	"golox/value"
)

// Precedence levels for the expression grammar, lowest first. Each
// binary operator parses its right operand one level higher than its own
// so the grammar is left-associative.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// parseFn is a prefix or infix parsing routine. canAssign tells it
// whether `=` may legally follow (min_prec <= PrecAssignment at the call
// site); only the handful of rules that can sit on an assignment's
// left-hand side (variable, for now) look at it.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// FunctionType distinguishes the implicit top-level script from a real
// function body, mainly so `return` at the top level can be rejected.
type FunctionType int

const (
	TypeFunction FunctionType = iota
	TypeScript
)

const maxLocals = 256

// Local is a lexically scoped variable living at a known value-stack
// slot. Depth -1 means "declared but not yet initialized", which forbids
// a variable referencing itself in its own initializer.
type Local struct {
	Name  token.Token
	Depth int
}

// parserState is shared by every Compiler in the enclosing chain for one
// compilation: the token cursor and accumulated diagnostics. It also
// holds the heap and intern table shared with the VM, since the compiler
// allocates and interns every string and identifier constant it emits.
type parserState struct {
	sc *scanner.Scanner

	heap    *value.Heap
	strings *table.Table

	current   token.Token
	previous  token.Token
	hadError  bool
	panicMode bool
	errs      []CompileError
}

func (p *parserState) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.ScanToken()
		if p.current.TokenType != token.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parserState) check(t token.TokenType) bool {
	return p.current.TokenType == t
}

func (p *parserState) match(t token.TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *parserState) consume(t token.TokenType, message string) {
	if p.current.TokenType == t {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *parserState) errorAtCurrent(message string) {
	p.errorAt(p.current, message)
}

func (p *parserState) errorAtPrevious(message string) {
	p.errorAt(p.previous, message)
}

func (p *parserState) errorAt(tok token.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	ce := CompileError{Line: tok.Line, Message: message}
	switch tok.TokenType {
	case token.EOF:
		ce.AtEnd = true
	case token.ERROR:
		// the message already came from the scanner; don't also quote it
		// as a lexeme.
	default:
		ce.Lexeme = tok.Lexeme
	}
	p.errs = append(p.errs, ce)
	p.hadError = true
}

// synchronize resumes ordinary parsing after an error by skipping to the
// next statement boundary: a consumed ';' or one of the statement/decl
// keywords.
func (p *parserState) synchronize() {
	p.panicMode = false
	for p.current.TokenType != token.EOF {
		if p.previous.TokenType == token.SEMICOLON {
			return
		}
		switch p.current.TokenType {
		case token.CLASS, token.FUNC, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// Compiler compiles one function body (the top-level script counts as a
// function). Nested function declarations push a new Compiler whose
// enclosing field links back to the one compiling the surrounding code;
// this chain replaces the C original's global `current` pointer with an
// explicit, passable state.
type Compiler struct {
	enclosing *Compiler
	parser    *parserState

	function *value.ObjFunction
	funcType FunctionType

	locals     [maxLocals]Local
	localCount int
	scopeDepth int
}

// Compile compiles source into a top-level ObjFunction, interning every
// string/identifier literal into heap/strings as it goes (the same heap
// and table the VM uses, since compile-time and run-time objects share
// one world). It returns the compiled function and a nil error slice on
// success, or a nil function and the accumulated diagnostics on failure.
func Compile(source string, heap *value.Heap, strings *table.Table) (*value.ObjFunction, []CompileError) {
	p := &parserState{sc: scanner.New(source), heap: heap, strings: strings}
	root := &Compiler{parser: p, funcType: TypeScript}
	root.function = heap.NewFunction()
	// The VM runs the script with the script function itself in slot 0,
	// just like any other call, so slot 0 is reserved here too.
	root.locals[0] = Local{Name: token.Token{Lexeme: ""}, Depth: 0}
	root.localCount = 1

	p.advance()
	for !p.match(token.EOF) {
		root.declaration()
	}
	fn := root.endCompiler()

	if p.hadError {
		return nil, p.errs
	}
	return fn, nil
}

func (c *Compiler) currentChunk() *value.Chunk {
	return &c.function.Chunk
}

// ---- declarations & statements ----

func (c *Compiler) declaration() {
	switch {
	case c.parser.match(token.VAR):
		c.varDeclaration()
	case c.parser.match(token.FUNC):
		c.funDeclaration()
	default:
		c.statement()
	}
	if c.parser.panicMode {
		c.parser.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.parser.match(token.ASSIGN) {
		c.expression()
	} else {
		c.emitOp(value.OpNil)
	}
	c.parser.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) funDeclaration() {
	c.parser.consume(token.IDENTIFIER, "Expect function name.")
	name := c.parser.previous
	c.declareVariableLocal(name)
	if c.scopeDepth > 0 {
		c.markInitialized()
	}
	var global byte
	if c.scopeDepth == 0 {
		global = c.identifierConstant(name)
	}

	c.function_(TypeFunction, name.Lexeme)
	c.defineVariable(global)
}

// function_ compiles a nested function body: parameters then block,
// inside a fresh Compiler, and emits OP_CONSTANT for the resulting
// ObjFunction back into the enclosing chunk.
func (c *Compiler) function_(funcType FunctionType, name string) {
	child := &Compiler{enclosing: c, parser: c.parser, funcType: funcType}
	child.function = c.parser.heap.NewFunction()
	child.function.Name = c.parser.heap.NewString(name)

	// Local slot 0 is reserved for the callee itself; argument i lives at
	// slot i+1, matching the VM's CallFrame.slots layout.
	child.locals[0] = Local{Name: token.Token{Lexeme: ""}, Depth: 0}
	child.localCount = 1

	// Parameters are locals of the function's own body scope, not
	// globals, regardless of whether the function itself is declared at
	// top level or nested.
	child.beginScope()

	child.parser.consume(token.LPA, "Expect '(' after function name.")
	if !child.parser.check(token.RPA) {
		for {
			child.function.Arity++
			if child.function.Arity > 255 {
				child.parser.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := child.parseVariable("Expect parameter name.")
			child.defineVariable(paramConst)
			if !child.parser.match(token.COMMA) {
				break
			}
		}
	}
	child.parser.consume(token.RPA, "Expect ')' after parameters.")
	child.parser.consume(token.LCUR, "Expect '{' before function body.")
	child.block()

	fn := child.endCompiler()
	c.emitConstant(value.FromObj(fn))
}

func (c *Compiler) endCompiler() *value.ObjFunction {
	c.emitReturn()
	return c.function
}

func (c *Compiler) statement() {
	switch {
	case c.parser.match(token.PRINT):
		c.printStatement()
	case c.parser.match(token.IF):
		c.ifStatement()
	case c.parser.match(token.WHILE):
		c.whileStatement()
	case c.parser.match(token.FOR):
		c.forStatement()
	case c.parser.match(token.RETURN):
		c.returnStatement()
	case c.parser.match(token.LCUR):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.parser.check(token.RCUR) && !c.parser.check(token.EOF) {
		c.declaration()
	}
	c.parser.consume(token.RCUR, "Expect '}' after block.")
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

func (c *Compiler) endScope() {
	c.scopeDepth--
	for c.localCount > 0 && c.locals[c.localCount-1].Depth > c.scopeDepth {
		c.emitOp(value.OpPop)
		c.localCount--
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.parser.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(value.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.parser.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(value.OpPop)
}

func (c *Compiler) ifStatement() {
	c.parser.consume(token.LPA, "Expect '(' after 'if'.")
	c.expression()
	c.parser.consume(token.RPA, "Expect ')' after condition.")

	thenJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()

	elseJump := c.emitJump(value.OpJump)
	c.patchJump(thenJump)
	c.emitOp(value.OpPop)

	if c.parser.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.currentChunk().Code)
	c.parser.consume(token.LPA, "Expect '(' after 'while'.")
	c.expression()
	c.parser.consume(token.RPA, "Expect ')' after condition.")

	exitJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(value.OpPop)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.parser.consume(token.LPA, "Expect '(' after 'for'.")

	switch {
	case c.parser.match(token.SEMICOLON):
		// no initializer
	case c.parser.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.currentChunk().Code)
	exitJump := -1
	if !c.parser.match(token.SEMICOLON) {
		c.expression()
		c.parser.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(value.OpJumpIfFalse)
		c.emitOp(value.OpPop)
	}

	if !c.parser.match(token.RPA) {
		bodyJump := c.emitJump(value.OpJump)
		incrementStart := len(c.currentChunk().Code)
		c.expression()
		c.emitOp(value.OpPop)
		c.parser.consume(token.RPA, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(value.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.funcType == TypeScript {
		c.parser.errorAtPrevious("Can't return from top-level code.")
	}
	if c.parser.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.parser.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(value.OpReturn)
}

// ---- variables ----

func (c *Compiler) parseVariable(errMessage string) byte {
	c.parser.consume(token.IDENTIFIER, errMessage)
	name := c.parser.previous
	c.declareVariableLocal(name)
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) identifierConstant(name token.Token) byte {
	s := c.internString(name.Lexeme)
	return c.makeConstant(value.FromObj(s))
}

func (c *Compiler) declareVariableLocal(name token.Token) {
	if c.scopeDepth == 0 {
		return
	}
	for i := c.localCount - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Depth != -1 && local.Depth < c.scopeDepth {
			break
		}
		if local.Name.Lexeme == name.Lexeme {
			c.parser.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name token.Token) {
	if c.localCount == maxLocals {
		c.parser.errorAtPrevious("Too many local variables in function.")
		return
	}
	c.locals[c.localCount] = Local{Name: name, Depth: -1}
	c.localCount++
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[c.localCount-1].Depth = c.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitBytes(byte(value.OpDefineGlobal), global)
}

func (c *Compiler) resolveLocal(name token.Token) int {
	for i := c.localCount - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Name.Lexeme == name.Lexeme {
			if local.Depth == -1 {
				c.parser.errorAtPrevious("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp value.OpCode
	var arg int

	if local := c.resolveLocal(name); local != -1 {
		arg = local
		getOp, setOp = value.OpGetLocal, value.OpSetLocal
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = value.OpGetGlobal, value.OpSetGlobal
	}

	if canAssign && c.parser.match(token.ASSIGN) {
		c.expression()
		c.emitBytes(byte(setOp), byte(arg))
	} else {
		c.emitBytes(byte(getOp), byte(arg))
	}
}

// internString deduplicates chars against the shared intern table,
// allocating a new ObjString only on a genuine miss.
func (c *Compiler) internString(chars string) *value.ObjString {
	hash := value.HashString(chars)
	if existing := c.parser.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := c.parser.heap.NewString(chars)
	c.parser.strings.Set(s, value.Boolean(true))
	return s
}

// ---- expressions ----

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(minPrec Precedence) {
	c.parser.advance()
	rule := getRule(c.parser.previous.TokenType)
	if rule.prefix == nil {
		c.parser.errorAtPrevious("Expect expression.")
		return
	}

	canAssign := minPrec <= PrecAssignment
	rule.prefix(c, canAssign)

	for minPrec <= getRule(c.parser.current.TokenType).precedence {
		c.parser.advance()
		infix := getRule(c.parser.previous.TokenType).infix
		infix(c, canAssign)
	}

	if canAssign && c.parser.match(token.ASSIGN) {
		c.parser.errorAtPrevious("Invalid assignment target.")
	}
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.parser.consume(token.RPA, "Expect ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	opType := c.parser.previous.TokenType
	c.parsePrecedence(PrecUnary)
	switch opType {
	case token.SUB:
		c.emitOp(value.OpNegate)
	case token.BANG:
		c.emitOp(value.OpNot)
	}
}

func binary(c *Compiler, _ bool) {
	opType := c.parser.previous.TokenType
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.ADD:
		c.emitOp(value.OpAdd)
	case token.SUB:
		c.emitOp(value.OpSubtract)
	case token.MULT:
		c.emitOp(value.OpMultiply)
	case token.DIV:
		c.emitOp(value.OpDivide)
	case token.NOT_EQUAL:
		c.emitOp(value.OpEqual)
		c.emitOp(value.OpNot)
	case token.EQUAL_EQUAL:
		c.emitOp(value.OpEqual)
	case token.LARGER:
		c.emitOp(value.OpGreater)
	case token.LARGER_EQUAL:
		c.emitOp(value.OpLess)
		c.emitOp(value.OpNot)
	case token.LESS:
		c.emitOp(value.OpLess)
	case token.LESS_EQUAL:
		c.emitOp(value.OpGreater)
		c.emitOp(value.OpNot)
	}
}

func call(c *Compiler, _ bool) {
	argCount := c.argumentList()
	c.emitBytes(byte(value.OpCall), byte(argCount))
}

func (c *Compiler) argumentList() int {
	argCount := 0
	if !c.parser.check(token.RPA) {
		for {
			c.expression()
			if argCount == 255 {
				c.parser.errorAtPrevious("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.consume(token.RPA, "Expect ')' after arguments.")
	return argCount
}

func number(c *Compiler, _ bool) {
	n, err := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	if err != nil {
		c.parser.errorAtPrevious("Invalid number literal.")
		return
	}
	c.emitConstant(value.Num(n))
}

func stringLiteral(c *Compiler, _ bool) {
	lexeme := c.parser.previous.Lexeme
	// strip the surrounding quotes
	chars := lexeme[1 : len(lexeme)-1]
	s := c.internString(chars)
	c.emitConstant(value.FromObj(s))
}

func literal(c *Compiler, _ bool) {
	switch c.parser.previous.TokenType {
	case token.FALSE:
		c.emitOp(value.OpFalse)
	case token.TRUE:
		c.emitOp(value.OpTrue)
	case token.NIL:
		c.emitOp(value.OpNil)
	}
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.parser.previous, canAssign)
}

func and_(c *Compiler, _ bool) {
	endJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func or_(c *Compiler, _ bool) {
	elseJump := c.emitJump(value.OpJumpIfFalse)
	endJump := c.emitJump(value.OpJump)
	c.patchJump(elseJump)
	c.emitOp(value.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}
