// Package css implements the selector engine used for delegated event
// matching and element lookup.
package css

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrInvalidSelector is the cause of every selector parse error.
var ErrInvalidSelector = errors.New("invalid selector")

// CSSSelector represents a parsed selector list.
type CSSSelector struct {
	// A selector is a list of complex selectors separated by commas
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors separated by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors.
type CompoundSelector struct {
	TypeSelector      string // "" for none, "*" for universal, or a lower-case tag name
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	Combinator        CombinatorType // Combinator following this compound selector
}

// CombinatorType represents the type of combinator.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
)

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// PseudoClassSelector represents a pseudo-class.
type PseudoClassSelector struct {
	Name     string
	Argument string       // For :nth-child(2n+1)
	Selector *CSSSelector // For :not()
}

// SelectorParser parses selectors directly from their source text.
type SelectorParser struct {
	input []rune
	pos   int
}

// ParseSelector parses a selector list such as "ul > li.item, #save".
func ParseSelector(input string) (*CSSSelector, error) {
	p := &SelectorParser{input: []rune(input)}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", input)
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q", string(p.current()))
	}
	return sel, nil
}

func (p *SelectorParser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidSelector, "offset %d: "+format, append([]interface{}{p.pos}, args...)...)
}

func (p *SelectorParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *SelectorParser) current() rune {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *SelectorParser) skipWhitespace() bool {
	start := p.pos
	for !p.eof() && unicode.IsSpace(p.current()) {
		p.pos++
	}
	return p.pos > start
}

func (p *SelectorParser) parseSelector() (*CSSSelector, error) {
	selector := &CSSSelector{}
	p.skipWhitespace()

	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		selector.ComplexSelectors = append(selector.ComplexSelectors, complex)

		p.skipWhitespace()
		if p.current() != ',' {
			break
		}
		p.pos++
		p.skipWhitespace()
	}
	return selector, nil
}

func (p *SelectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		switch p.current() {
		case '>':
			compound.Combinator = CombinatorChild
		case '+':
			compound.Combinator = CombinatorNextSibling
		case '~':
			compound.Combinator = CombinatorSubsequentSibling
		case 0, ',', ')':
			return complex, nil
		default:
			if !hadWhitespace {
				return complex, nil
			}
			compound.Combinator = CombinatorDescendant
			continue
		}
		p.pos++
		p.skipWhitespace()
	}
}

func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	if p.current() == '*' {
		p.pos++
		compound.TypeSelector = "*"
		hasContent = true
	} else if isNameStart(p.current()) {
		compound.TypeSelector = strings.ToLower(p.parseName())
		hasContent = true
	}

	for {
		switch p.current() {
		case '#':
			p.pos++
			name := p.parseName()
			if name == "" {
				return nil, p.errorf("expected id after '#'")
			}
			compound.IDSelectors = append(compound.IDSelectors, name)
		case '.':
			p.pos++
			name := p.parseName()
			if name == "" {
				return nil, p.errorf("expected class name after '.'")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, name)
		case '[':
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
		case ':':
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)
		default:
			if !hasContent {
				if p.eof() {
					return nil, p.errorf("empty selector")
				}
				return nil, p.errorf("unexpected %q", string(p.current()))
			}
			return compound, nil
		}
		hasContent = true
	}
}

func isNameStart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || r > 0x7f
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

// parseName reads an identifier, honoring backslash escapes.
func (p *SelectorParser) parseName() string {
	var sb strings.Builder
	for !p.eof() {
		r := p.current()
		if r == '\\' && p.pos+1 < len(p.input) {
			sb.WriteRune(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if !isNameChar(r) {
			break
		}
		sb.WriteRune(r)
		p.pos++
	}
	return sb.String()
}

func (p *SelectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.pos++ // [
	p.skipWhitespace()
	attr := &AttributeMatcher{Name: strings.ToLower(p.parseName())}
	if attr.Name == "" {
		return nil, p.errorf("expected attribute name")
	}
	p.skipWhitespace()

	if p.current() == ']' {
		p.pos++
		attr.Operator = AttrExists
		return attr, nil
	}

	switch p.current() {
	case '=':
		attr.Operator = AttrEquals
	case '~':
		attr.Operator = AttrIncludes
	case '|':
		attr.Operator = AttrDashMatch
	case '^':
		attr.Operator = AttrPrefix
	case '$':
		attr.Operator = AttrSuffix
	case '*':
		attr.Operator = AttrSubstring
	default:
		return nil, p.errorf("unexpected %q in attribute selector", string(p.current()))
	}
	p.pos++
	if attr.Operator != AttrEquals {
		if p.current() != '=' {
			return nil, p.errorf("expected '=' in attribute selector")
		}
		p.pos++
	}
	p.skipWhitespace()

	value, err := p.parseAttributeValue()
	if err != nil {
		return nil, err
	}
	attr.Value = value
	p.skipWhitespace()

	if r := unicode.ToLower(p.current()); r == 'i' || r == 's' {
		attr.CaseInsensitive = r == 'i'
		p.pos++
		p.skipWhitespace()
	}
	if p.current() != ']' {
		return nil, p.errorf("expected ']'")
	}
	p.pos++
	return attr, nil
}

func (p *SelectorParser) parseAttributeValue() (string, error) {
	quote := p.current()
	if quote != '"' && quote != '\'' {
		return p.parseName(), nil
	}
	p.pos++
	var sb strings.Builder
	for !p.eof() {
		r := p.current()
		p.pos++
		switch {
		case r == quote:
			return sb.String(), nil
		case r == '\\' && !p.eof():
			sb.WriteRune(p.current())
			p.pos++
		default:
			sb.WriteRune(r)
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *SelectorParser) parsePseudoClass() (*PseudoClassSelector, error) {
	p.pos++ // :
	if p.current() == ':' {
		return nil, p.errorf("pseudo-elements never match elements")
	}
	pc := &PseudoClassSelector{Name: strings.ToLower(p.parseName())}
	if pc.Name == "" {
		return nil, p.errorf("expected pseudo-class name")
	}
	if !knownPseudoClasses[pc.Name] {
		return nil, p.errorf("unsupported pseudo-class :%s", pc.Name)
	}
	if p.current() != '(' {
		if pc.Name == "not" || strings.HasPrefix(pc.Name, "nth-") {
			return nil, p.errorf(":%s requires an argument", pc.Name)
		}
		return pc, nil
	}
	p.pos++

	if pc.Name == "not" {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		pc.Selector = sel
	} else {
		start := p.pos
		for !p.eof() && p.current() != ')' {
			p.pos++
		}
		pc.Argument = strings.TrimSpace(string(p.input[start:p.pos]))
	}
	p.skipWhitespace()
	if p.current() != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.pos++
	return pc, nil
}

var knownPseudoClasses = map[string]bool{
	"root":           true,
	"empty":          true,
	"first-child":    true,
	"last-child":     true,
	"only-child":     true,
	"nth-child":      true,
	"nth-last-child": true,
	"not":            true,
}

// String returns a normalized form of the selector.
func (s *CSSSelector) String() string {
	parts := make([]string, len(s.ComplexSelectors))
	for i, cs := range s.ComplexSelectors {
		parts[i] = cs.String()
	}
	return strings.Join(parts, ", ")
}

// String returns a normalized form of the complex selector.
func (cs *ComplexSelector) String() string {
	var sb strings.Builder
	for _, c := range cs.Compounds {
		sb.WriteString(c.String())
		switch c.Combinator {
		case CombinatorDescendant:
			sb.WriteString(" ")
		case CombinatorChild:
			sb.WriteString(" > ")
		case CombinatorNextSibling:
			sb.WriteString(" + ")
		case CombinatorSubsequentSibling:
			sb.WriteString(" ~ ")
		}
	}
	return sb.String()
}

var attrOperators = map[AttributeOperator]string{
	AttrEquals:    "=",
	AttrIncludes:  "~=",
	AttrDashMatch: "|=",
	AttrPrefix:    "^=",
	AttrSuffix:    "$=",
	AttrSubstring: "*=",
}

// String returns a normalized form of the compound selector.
func (c *CompoundSelector) String() string {
	var sb strings.Builder
	sb.WriteString(c.TypeSelector)
	for _, id := range c.IDSelectors {
		sb.WriteString("#" + id)
	}
	for _, class := range c.ClassSelectors {
		sb.WriteString("." + class)
	}
	for _, a := range c.AttributeMatchers {
		sb.WriteString("[" + a.Name)
		if a.Operator != AttrExists {
			sb.WriteString(attrOperators[a.Operator] + `"` + a.Value + `"`)
			if a.CaseInsensitive {
				sb.WriteString(" i")
			}
		}
		sb.WriteString("]")
	}
	for _, pc := range c.PseudoClasses {
		sb.WriteString(":" + pc.Name)
		switch {
		case pc.Selector != nil:
			sb.WriteString("(" + pc.Selector.String() + ")")
		case pc.Argument != "":
			sb.WriteString("(" + pc.Argument + ")")
		}
	}
	return sb.String()
}
