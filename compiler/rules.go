package compiler

import "golox/token"

// rules maps each token type to its prefix parser, infix parser, and the
// precedence to use when that token appears as an infix/postfix
// operator. A nil prefix or infix means the token can't start/continue
// an expression in that position.
//
// The table is filled in init rather than by a package-level initializer:
// the parse functions reach getRule, which reads rules, so a direct
// initializer would be an initialization cycle.
var rules map[token.TokenType]parseRule

func init() {
	rules = map[token.TokenType]parseRule{
		token.LPA:          {prefix: grouping, infix: call, precedence: PrecCall},
		token.RPA:          {},
		token.LCUR:         {},
		token.RCUR:         {},
		token.COMMA:        {},
		token.DOT:          {},
		token.SEMICOLON:    {},
		token.SUB:          {prefix: unary, infix: binary, precedence: PrecTerm},
		token.ADD:          {infix: binary, precedence: PrecTerm},
		token.MULT:         {infix: binary, precedence: PrecFactor},
		token.DIV:          {infix: binary, precedence: PrecFactor},
		token.BANG:         {prefix: unary},
		token.NOT_EQUAL:    {infix: binary, precedence: PrecEquality},
		token.ASSIGN:       {},
		token.EQUAL_EQUAL:  {infix: binary, precedence: PrecEquality},
		token.LARGER:       {infix: binary, precedence: PrecComparison},
		token.LARGER_EQUAL: {infix: binary, precedence: PrecComparison},
		token.LESS:         {infix: binary, precedence: PrecComparison},
		token.LESS_EQUAL:   {infix: binary, precedence: PrecComparison},
		token.IDENTIFIER:   {prefix: variable},
		token.STRING:       {prefix: stringLiteral},
		token.NUMBER:       {prefix: number},
		token.AND:          {infix: and_, precedence: PrecAnd},
		token.OR:           {infix: or_, precedence: PrecOr},
		token.FALSE:        {prefix: literal},
		token.TRUE:         {prefix: literal},
		token.NIL:          {prefix: literal},
		token.CLASS:        {},
		token.FUNC:         {},
		token.FOR:          {},
		token.IF:           {},
		token.ELSE:         {},
		token.PRINT:        {},
		token.RETURN:       {},
		token.SUPER:        {},
		token.THIS:         {},
		token.VAR:          {},
		token.WHILE:        {},
		token.EOF:          {},
		token.ERROR:        {},
	}
}

func getRule(t token.TokenType) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{}
}
