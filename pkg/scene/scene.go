package scene

import "strings"

// ElementType is the structural kind of an element as reported by the host.
type ElementType string

// Element types. Only the first three can be screens.
const (
	TypeFrame        ElementType = "FRAME"
	TypeComponent    ElementType = "COMPONENT"
	TypeComponentSet ElementType = "COMPONENT_SET"
	TypeGroup        ElementType = "GROUP"
	TypeInstance     ElementType = "INSTANCE"
	TypeText         ElementType = "TEXT"
	TypeRectangle    ElementType = "RECTANGLE"
)

// IsContainer reports whether elements of this type can act as a screen.
func (t ElementType) IsContainer() bool {
	switch ElementType(strings.ToUpper(string(t))) {
	case TypeFrame, TypeComponent, TypeComponentSet:
		return true
	}
	return false
}

// Document is a design file with one or more pages.
type Document struct {
	Name  string  `json:"name" yaml:"name"`
	Pages []*Page `json:"pages" yaml:"pages"`
}

// Page returns the page with the given ID or name. An empty ref selects the
// first page.
func (d *Document) Page(ref string) (*Page, bool) {
	if len(d.Pages) == 0 {
		return nil, false
	}
	if ref == "" {
		return d.Pages[0], true
	}
	for _, p := range d.Pages {
		if p.ID == ref || p.Name == ref {
			return p, true
		}
	}
	return nil, false
}

// Page is a canvas holding top-level elements.
type Page struct {
	ID                 string              `json:"id" yaml:"id"`
	Name               string              `json:"name" yaml:"name"`
	Children           []*Element          `json:"children" yaml:"children"`
	FlowStartingPoints []FlowStartingPoint `json:"flowStartingPoints,omitempty" yaml:"flowStartingPoints,omitempty"`
}

// FlowStartingPoint marks an element as the entry of a prototype flow.
type FlowStartingPoint struct {
	NodeID string `json:"nodeId" yaml:"nodeId"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Element is a node in the page tree.
type Element struct {
	ID     string      `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Type   ElementType `json:"type" yaml:"type"`
	Width  float64     `json:"width" yaml:"width"`
	Height float64     `json:"height" yaml:"height"`
	// Fill is a hex color used for placeholder thumbnails.
	Fill string `json:"fill,omitempty" yaml:"fill,omitempty"`
	// Image is a PNG or JPEG file, relative to the document, rendered as the
	// element's thumbnail.
	Image     string     `json:"image,omitempty" yaml:"image,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	Children  []*Element `json:"children,omitempty" yaml:"children,omitempty"`

	parent *Element
	page   *Page
}

// Parent returns the enclosing element, or nil for top-level elements.
func (e *Element) Parent() *Element { return e.parent }

// Page returns the page the element belongs to.
func (e *Element) Page() *Page { return e.page }

// Reaction is one interaction record attached to an element.
//
// Older documents carry a single Action, newer ones an Actions list. Both
// may be present; see [Reaction.Records].
type Reaction struct {
	Trigger *Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Action  *Action  `json:"action,omitempty" yaml:"action,omitempty"`
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// TriggerType returns the trigger kind, or "" when the record has none.
func (r Reaction) TriggerType() string {
	if r.Trigger == nil {
		return ""
	}
	return r.Trigger.Type
}

// Records returns the actions of the reaction: the Actions list when it is
// non-empty, otherwise the single Action if set.
func (r Reaction) Records() []Action {
	if len(r.Actions) > 0 {
		return r.Actions
	}
	if r.Action != nil {
		return []Action{*r.Action}
	}
	return nil
}

// Trigger describes what the user does, e.g. ON_CLICK or AFTER_TIMEOUT.
type Trigger struct {
	Type string `json:"type" yaml:"type"`
}

// Action describes what happens. DestinationID is empty for actions that do
// not lead to another element (URL, BACK, CLOSE).
type Action struct {
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	DestinationID string `json:"destinationId,omitempty" yaml:"destinationId,omitempty"`
	// Navigation is NAVIGATE, OVERLAY, SWAP, SCROLL_TO or CHANGE_TO.
	Navigation string `json:"navigation,omitempty" yaml:"navigation,omitempty"`
}

// Walk visits every element under the page's top-level children in
// pre-order, parents before children. Returning false from fn skips the
// element's subtree.
func (p *Page) Walk(fn func(*Element) bool) {
	var visit func(e *Element)
	visit = func(e *Element) {
		if !fn(e) {
			return
		}
		for _, c := range e.Children {
			visit(c)
		}
	}
	for _, c := range p.Children {
		visit(c)
	}
}
