package dom

import (
	"strings"
)

// DOMTokenList represents a set of space-separated tokens.
// It is used for Element.classList.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{
		element:  element,
		attrName: attrName,
	}
}

// tokens returns the current list of tokens, deduplicated in order.
func (dtl *DOMTokenList) tokens() []string {
	value := dtl.element.GetAttribute(dtl.attrName)
	if value == "" {
		return nil
	}
	seen := make(map[string]bool)
	var result []string
	for _, token := range strings.Fields(value) {
		if !seen[token] {
			seen[token] = true
			result = append(result, token)
		}
	}
	return result
}

func (dtl *DOMTokenList) setTokens(tokens []string) {
	dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at index, or "" when out of range.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains reports whether token is present.
func (dtl *DOMTokenList) Contains(token string) bool {
	for _, t := range dtl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends the tokens that are not already present.
func (dtl *DOMTokenList) Add(tokens ...string) {
	current := dtl.tokens()
	for _, token := range tokens {
		if token == "" || strings.ContainsAny(token, " \t\n\r\f") {
			continue
		}
		if !dtl.containsIn(current, token) {
			current = append(current, token)
		}
	}
	dtl.setTokens(current)
}

// Remove drops the given tokens.
func (dtl *DOMTokenList) Remove(tokens ...string) {
	current := dtl.tokens()
	result := current[:0]
	for _, t := range current {
		if !dtl.containsIn(tokens, t) {
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
}

// Toggle removes token if present and adds it otherwise. It returns whether
// the token is present afterwards.
func (dtl *DOMTokenList) Toggle(token string) bool {
	if dtl.Contains(token) {
		dtl.Remove(token)
		return false
	}
	dtl.Add(token)
	return true
}

// Value returns the serialized token set.
func (dtl *DOMTokenList) Value() string {
	return strings.Join(dtl.tokens(), " ")
}

func (dtl *DOMTokenList) containsIn(list []string, token string) bool {
	for _, t := range list {
		if t == token {
			return true
		}
	}
	return false
}
