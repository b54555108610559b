package css

import (
	"strconv"
	"strings"
	"sync"

	"github.com/chrisuehlinger/domsugar/dom"
)

// MatchElement tests if a selector matches an element.
func (s *CSSSelector) MatchElement(el *dom.Element) bool {
	for _, cs := range s.ComplexSelectors {
		if cs.MatchElement(el) {
			return true
		}
	}
	return false
}

// MatchElement tests if a complex selector matches an element.
func (cs *ComplexSelector) MatchElement(el *dom.Element) bool {
	if len(cs.Compounds) == 0 {
		return false
	}
	return cs.matchFrom(len(cs.Compounds)-1, el)
}

// matchFrom matches compounds[0..i] right to left with el as the subject
// of compounds[i]. Descendant and subsequent-sibling steps backtrack.
func (cs *ComplexSelector) matchFrom(i int, el *dom.Element) bool {
	if !cs.Compounds[i].MatchElement(el) {
		return false
	}
	if i == 0 {
		return true
	}

	switch cs.Compounds[i-1].Combinator {
	case CombinatorDescendant:
		for ancestor := el.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if cs.matchFrom(i-1, ancestor) {
				return true
			}
		}
		return false

	case CombinatorChild:
		parent := el.ParentElement()
		return parent != nil && cs.matchFrom(i-1, parent)

	case CombinatorNextSibling:
		prev := el.PreviousElementSibling()
		return prev != nil && cs.matchFrom(i-1, prev)

	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if cs.matchFrom(i-1, prev) {
				return true
			}
		}
		return false
	}
	return false
}

// MatchElement tests if a compound selector matches an element.
func (c *CompoundSelector) MatchElement(el *dom.Element) bool {
	if c.TypeSelector != "" && c.TypeSelector != "*" && !strings.EqualFold(el.LocalName(), c.TypeSelector) {
		return false
	}
	for _, id := range c.IDSelectors {
		if el.Id() != id {
			return false
		}
	}
	for _, class := range c.ClassSelectors {
		if !el.ClassList().Contains(class) {
			return false
		}
	}
	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(pc, el) {
			return false
		}
	}
	return true
}

func matchAttributeSelector(attr *AttributeMatcher, el *dom.Element) bool {
	if !el.HasAttribute(attr.Name) {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	value := el.GetAttribute(attr.Name)
	want := attr.Value
	if attr.CaseInsensitive {
		value = strings.ToLower(value)
		want = strings.ToLower(want)
	}

	switch attr.Operator {
	case AttrEquals:
		return value == want
	case AttrIncludes:
		for _, word := range strings.Fields(value) {
			if word == want {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return value == want || strings.HasPrefix(value, want+"-")
	case AttrPrefix:
		return want != "" && strings.HasPrefix(value, want)
	case AttrSuffix:
		return want != "" && strings.HasSuffix(value, want)
	case AttrSubstring:
		return want != "" && strings.Contains(value, want)
	}
	return false
}

func matchPseudoClass(pc *PseudoClassSelector, el *dom.Element) bool {
	switch pc.Name {
	case "root":
		parent := el.AsNode().ParentNode()
		return parent != nil && parent.NodeType() == dom.DocumentNode

	case "empty":
		for c := el.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
			if c.NodeType() == dom.ElementNode || c.NodeType() == dom.TextNode {
				return false
			}
		}
		return true

	case "first-child":
		return el.PreviousElementSibling() == nil

	case "last-child":
		return el.NextElementSibling() == nil

	case "only-child":
		return el.PreviousElementSibling() == nil && el.NextElementSibling() == nil

	case "nth-child":
		return matchNthChild(pc.Argument, el, false)

	case "nth-last-child":
		return matchNthChild(pc.Argument, el, true)

	case "not":
		return pc.Selector == nil || !pc.Selector.MatchElement(el)
	}
	return false
}

// matchNthChild implements :nth-child and :nth-last-child.
func matchNthChild(arg string, el *dom.Element, fromLast bool) bool {
	a, b, ok := parseAnPlusB(arg)
	if !ok {
		return false
	}

	pos := 1
	if fromLast {
		for next := el.NextElementSibling(); next != nil; next = next.NextElementSibling() {
			pos++
		}
	} else {
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			pos++
		}
	}

	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

// parseAnPlusB parses "odd", "even", "5", "n", "-n+3", "2n-1" and friends.
func parseAnPlusB(s string) (int, int, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return 0, n, true
	}

	nIdx := strings.Index(s, "n")
	if nIdx == -1 {
		return 0, 0, false
	}

	var a int
	switch aStr := s[:nIdx]; aStr {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aStr)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}

	b := 0
	if bStr := s[nIdx+1:]; bStr != "" {
		v, err := strconv.Atoi(bStr)
		if err != nil {
			return 0, 0, false
		}
		b = v
	}
	return a, b, true
}

// Matches reports whether el matches selector. Unparsable selectors never match.
func Matches(el *dom.Element, selector string) bool {
	if el == nil {
		return false
	}
	sel, err := ParseSelector(selector)
	if err != nil {
		return false
	}
	return sel.MatchElement(el)
}

// Closest returns the nearest inclusive ancestor of el matching selector.
func Closest(el *dom.Element, selector string) *dom.Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	for cur := el; cur != nil; cur = cur.ParentElement() {
		if sel.MatchElement(cur) {
			return cur
		}
	}
	return nil
}

// QuerySelector returns the first descendant of root matching the selector.
func QuerySelector(root *dom.Node, selectorStr string) *dom.Element {
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil
	}
	for _, n := range root.Descendants() {
		if n.NodeType() == dom.ElementNode && selector.MatchElement((*dom.Element)(n)) {
			return (*dom.Element)(n)
		}
	}
	return nil
}

// QuerySelectorAll returns every descendant of root matching the selector,
// in tree order. The error reports an unparsable selector.
func QuerySelectorAll(root *dom.Node, selectorStr string) ([]*dom.Element, error) {
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil, err
	}
	var results []*dom.Element
	for _, n := range root.Descendants() {
		if n.NodeType() == dom.ElementNode && selector.MatchElement((*dom.Element)(n)) {
			results = append(results, (*dom.Element)(n))
		}
	}
	return results, nil
}

// Matcher matches event origins against selectors, caching parsed selectors.
// Only elements can match; documents, windows and text nodes never do.
type Matcher struct {
	mu    sync.Mutex
	cache map[string]*CSSSelector
}

// NewMatcher creates a Matcher with an empty cache.
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[string]*CSSSelector)}
}

// Matches implements the delegation matcher contract.
func (m *Matcher) Matches(target dom.EventTarget, selector string) bool {
	el, ok := target.(*dom.Element)
	if !ok || el == nil {
		return false
	}
	sel := m.compile(selector)
	return sel != nil && sel.MatchElement(el)
}

// compile returns the cached parse of selector; failures are cached as nil.
func (m *Matcher) compile(selector string) *CSSSelector {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sel, ok := m.cache[selector]; ok {
		return sel
	}
	sel, err := ParseSelector(selector)
	if err != nil {
		sel = nil
	}
	m.cache[selector] = sel
	return sel
}
