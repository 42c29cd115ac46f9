package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
)

// SelfIdentifier refers to the field being validated.
const SelfIdentifier = "$self"

// Expression is a compiled predicate over a form record.
//
// Supported syntax:
//   - truthiness: `subscribeMe`, `!subscribeMe`
//   - comparisons: `phoneType > -1`, `email != ""`, `count <= 3`
//   - case-insensitive equality: `confirmEmail ~= $email`
//   - field references on the right-hand side: `$email`, `$self`
//   - composition: `a && (b || !c)`
//
// Bare identifiers in literal position are treated as strings. Comparing with
// true or false only matches boolean values; use `!flag` for falsy checks.
type Expression struct {
	source string
	root   exprNode
}

// Compile parses rule into an Expression. Blank rules compile to an
// expression that is always true.
func Compile(rule string) (*Expression, error) {
	trimmed := strings.TrimSpace(rule)
	out := &Expression{source: trimmed}
	if trimmed == "" {
		return out, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return out, nil
	}

	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

// MustCompile is Compile that panics on error, for package-level rules.
func MustCompile(rule string) *Expression {
	compiled, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return compiled
}

// String returns the source text.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Eval evaluates the expression against record with field bound to $self.
func (e *Expression) Eval(record model.Record, field string) (bool, error) {
	if e == nil || e.root == nil {
		return true, nil
	}
	return e.root.eval(scope{record: record, field: field})
}

// Validate implements model.Predicate. Evaluation errors count as failures.
func (e *Expression) Validate(record model.Record, field string) bool {
	ok, err := e.Eval(record, field)
	return err == nil && ok
}

type scope struct {
	record model.Record
	field  string
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenFold
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', '<', '>', '~':
		return true
	default:
		return false
	}
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch ch {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			continue
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			continue
		case '!':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			continue
		case '=':
			if peek(1) != '=' {
				return nil, errors.New("validation/expr: unexpected '='; use '=='")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			continue
		case '~':
			if peek(1) != '=' {
				return nil, errors.New("validation/expr: unexpected '~'; use '~='")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenFold, raw: "~="})
			continue
		case '<':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenLte, raw: "<="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenLt, raw: "<"})
			continue
		case '>':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenGte, raw: ">="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenGt, raw: ">"})
			continue
		case '&':
			if peek(1) != '&' {
				return nil, errors.New("validation/expr: unexpected '&'; use '&&'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			continue
		case '|':
			if peek(1) != '|' {
				return nil, errors.New("validation/expr: unexpected '|'; use '||'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			continue
		case '"', '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			i = next
			tokens = append(tokens, token{kind: tokenString, raw: value})
			continue
		}

		start := i
		for i < len(input) && !isDelimiter(input[i]) && input[i] != '"' && input[i] != '\'' {
			i++
		}
		raw := input[start:i]
		switch strings.ToLower(raw) {
		case "true", "false":
			tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
		case "null", "nil":
			tokens = append(tokens, token{kind: tokenNull, raw: "null"})
		default:
			if looksLikeNumber(raw) {
				tokens = append(tokens, token{kind: tokenNumber, raw: raw})
			} else {
				tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
			}
		}
	}

	return tokens, nil
}

func readString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("validation/expr: invalid string literal: %w", err)
		}
		return value, i + 1, nil
	}
	return "", 0, errors.New("validation/expr: unterminated string literal")
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	if ch == '-' || ch == '+' {
		return len(raw) > 1 && raw[1] >= '0' && raw[1] <= '9'
	}
	return ch >= '0' && ch <= '9'
}

type exprNode interface {
	eval(s scope) (bool, error)
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(s scope) (bool, error) {
	ok, err := n.left.eval(s)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(s)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(s scope) (bool, error) {
	ok, err := n.left.eval(s)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(s)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(s scope) (bool, error) {
	ok, err := n.inner.eval(s)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type operandKind int

const (
	operandString operandKind = iota
	operandNumber
	operandBool
	operandNull
	operandField
)

type operand struct {
	kind operandKind
	raw  string
	num  float64
}

func (o operand) resolve(s scope) any {
	switch o.kind {
	case operandField:
		value, _ := lookup(s, o.raw)
		return value
	case operandNumber:
		return o.num
	case operandBool:
		return o.raw == "true"
	case operandNull:
		return nil
	default:
		return o.raw
	}
}

type exprCompare struct {
	identifier string
	op         tokenKind
	right      operand
}

func (n exprCompare) eval(s scope) (bool, error) {
	left, _ := lookup(s, n.identifier)
	right := n.right.resolve(s)

	switch n.op {
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return compareOrdered(n.op, left, right), nil
	case tokenFold:
		return strings.EqualFold(coerceString(left), coerceString(right)), nil
	case tokenEq:
		return equal(left, right, n.right.kind), nil
	case tokenNeq:
		return !equal(left, right, n.right.kind), nil
	default:
		return false, fmt.Errorf("validation/expr: unsupported operator %q", opString(n.op))
	}
}

func equal(left, right any, kind operandKind) bool {
	switch kind {
	case operandNull:
		return left == nil
	case operandBool:
		want, _ := right.(bool)
		got, ok := left.(bool)
		return ok && got == want
	case operandNumber:
		want, _ := right.(float64)
		got, ok := coerceNumber(left)
		return ok && got == want
	case operandField:
		if right == nil || left == nil {
			return left == right
		}
		if l, ok := left.(float64); ok {
			r, ok := coerceNumber(right)
			return ok && l == r
		}
		if l, ok := left.(bool); ok {
			return l == truthy(right)
		}
		return coerceString(left) == coerceString(right)
	default:
		return coerceString(left) == coerceString(right)
	}
}

func compareOrdered(op tokenKind, left, right any) bool {
	l, lok := coerceNumber(left)
	r, rok := coerceNumber(right)
	if !lok || !rok || math.IsNaN(l) || math.IsNaN(r) {
		return false
	}
	switch op {
	case tokenLt:
		return l < r
	case tokenLte:
		return l <= r
	case tokenGt:
		return l > r
	case tokenGte:
		return l >= r
	default:
		return false
	}
}

func opString(op tokenKind) string {
	switch op {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenFold:
		return "~="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	default:
		return "?"
	}
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(s scope) (bool, error) {
	value, ok := lookup(s, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("validation/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

var comparisonOps = []tokenKind{tokenEq, tokenNeq, tokenFold, tokenLt, tokenLte, tokenGt, tokenGte}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("validation/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("validation/expr: empty expression")
		}
		return nil, fmt.Errorf("validation/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range comparisonOps {
		if !stream.match(op) {
			continue
		}
		right, err := stream.consumeOperand()
		if err != nil {
			return nil, err
		}
		return exprCompare{identifier: ident.raw, op: op, right: right}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeOperand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("validation/expr: missing operand")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return operand{kind: operandString, raw: tok.raw}, nil
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return operand{}, fmt.Errorf("validation/expr: invalid number literal %q", tok.raw)
		}
		return operand{kind: operandNumber, raw: tok.raw, num: value}, nil
	case tokenBool:
		return operand{kind: operandBool, raw: tok.raw}, nil
	case tokenNull:
		return operand{kind: operandNull, raw: "null"}, nil
	case tokenIdentifier:
		if strings.HasPrefix(tok.raw, "$") {
			return operand{kind: operandField, raw: tok.raw}, nil
		}
		return operand{kind: operandString, raw: tok.raw}, nil
	default:
		return operand{}, fmt.Errorf("validation/expr: expected operand, got %q", tok.raw)
	}
}

func lookup(s scope, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == SelfIdentifier {
		key = s.field
	} else {
		key = strings.TrimPrefix(key, "$")
	}
	if key == "" || s.record == nil {
		return nil, false
	}
	value, ok := s.record[key]
	return value, ok
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false
		}
		n := coerce.Number(v)
		return n, !math.IsNaN(n)
	case bool:
		return coerce.Number(v), true
	default:
		n := coerce.Number(v)
		return n, !math.IsNaN(n)
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
