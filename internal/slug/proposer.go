// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

// State tracks who owns the slug field during an active edit session.
type State int

const (
	// StatePristine means the slug still follows the title: every title
	// change proposes a freshly derived slug.
	StatePristine State = iota
	// StateOverridden means the user edited the slug directly; title
	// changes no longer touch it.
	StateOverridden
)

// Proposer models the live title→slug derivation of the create form as
// an explicit state machine, independent of any UI toolkit. Derivation
// only happens while creating a record — edit sessions on existing
// records never re-derive, no matter what the title does.
type Proposer struct {
	creating bool
	state    State
	value    string
}

// NewProposer returns a Proposer for an edit session. creating is true
// for the create form and false when editing an existing record.
func NewProposer(creating bool) *Proposer {
	return &Proposer{creating: creating}
}

// State returns the current ownership state of the slug field.
func (p *Proposer) State() State {
	return p.state
}

// Value returns the slug currently proposed or held by the field.
func (p *Proposer) Value() string {
	return p.value
}

// TitleChanged reports a title edit. While the session is a create and
// the slug is pristine, it returns a newly derived slug and true.
// Otherwise the slug field is left alone and ok is false.
func (p *Proposer) TitleChanged(title string) (proposal string, ok bool) {
	if !p.creating || p.state != StatePristine {
		return p.value, false
	}
	p.value = Generate(title)
	return p.value, true
}

// SlugEdited reports a direct user edit of the slug field. Any non-empty
// value takes ownership away from the derivation; clearing the field
// hands it back, so the next title change proposes again.
func (p *Proposer) SlugEdited(value string) {
	p.value = value
	if value == "" {
		p.state = StatePristine
		return
	}
	p.state = StateOverridden
}
