package model

import "strings"

// Locator identifies an element on a catalog page, either by CSS selector or
// by ARIA role and accessible name. The name matches as a case-insensitive
// substring unless Exact is set. Within scopes the lookup to the element
// matched by the parent locator.
type Locator struct {
	CSS    string   `json:"css,omitempty"`
	Role   string   `json:"role,omitempty"`
	Name   string   `json:"name,omitempty"`
	Exact  bool     `json:"exact,omitempty"`
	Within *Locator `json:"within,omitempty"`
}

// CSS returns a selector based locator.
func CSS(selector string) Locator {
	return Locator{CSS: selector}
}

// ByRole returns a locator matching role whose accessible name contains name.
func ByRole(role, name string) Locator {
	return Locator{Role: role, Name: name}
}

// Exactly requires the whole accessible name to equal Name.
func (l Locator) Exactly() Locator {
	l.Exact = true
	return l
}

// In scopes l inside parent.
func (l Locator) In(parent Locator) Locator {
	l.Within = &parent
	return l
}

// Chain lists the locator and its parents, outermost first.
func (l Locator) Chain() []Locator {
	var chain []Locator
	for cur := &l; cur != nil; cur = cur.Within {
		step := *cur
		step.Within = nil
		chain = append([]Locator{step}, chain...)
	}
	return chain
}

func (l Locator) String() string {
	var parts []string
	for _, step := range l.Chain() {
		if step.CSS != "" {
			parts = append(parts, step.CSS)
		} else {
			flag := " i"
			if step.Exact {
				flag = " s"
			}
			parts = append(parts, step.Role+`[name="`+step.Name+`"`+flag+`]`)
		}
	}
	return strings.Join(parts, " >> ")
}
