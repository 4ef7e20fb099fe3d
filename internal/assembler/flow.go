// Package assembler implements the recipient-assembly workflow: an
// operator resolves a company's email format, enters people, reviews the
// generated candidates, and commits a selection into the accumulated
// recipient list.
package assembler

import (
	"strings"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/format"
)

// State is the assembler's position in the workflow.
type State string

const (
	// StateEnteringCompany is the initial state: waiting for a company
	// name to resolve against the format registry.
	StateEnteringCompany State = "entering_company"
	// StateAddingPeople holds a resolved format while the operator
	// builds the people list.
	StateAddingPeople State = "adding_people"
)

// Flow is one operator's assembly session. Not safe for concurrent use;
// the Manager serializes access per session.
type Flow struct {
	state       State
	companyName string
	domain      string
	emailFormat string
	people      []domain.Person
	candidates  []string
	selected    map[int]bool
	recipients  string
}

// NewFlow returns a flow in the initial state with an empty recipient list.
func NewFlow() *Flow {
	return &Flow{state: StateEnteringCompany, selected: make(map[int]bool)}
}

// State returns the current workflow state.
func (f *Flow) State() State { return f.state }

// Recipients returns the accumulated comma-separated recipient list.
func (f *Flow) Recipients() string { return f.recipients }

// ConfirmCompany binds a resolved company format and moves to
// StateAddingPeople. The caller resolves the lookup; a registry miss
// never reaches the flow (the operator is redirected to format creation).
func (f *Flow) ConfirmCompany(cf *domain.CompanyFormat) error {
	if f.state != StateEnteringCompany {
		return domain.Validationf("company already confirmed; commit or cancel first")
	}
	f.companyName = cf.CompanyName
	f.domain = cf.Domain
	f.emailFormat = cf.EmailFormat
	f.state = StateAddingPeople
	return nil
}

// AddPerson appends a person to the working list. Any previously
// generated candidates are invalidated so the lists stay in lockstep.
func (f *Flow) AddPerson(p domain.Person) error {
	if f.state != StateAddingPeople {
		return domain.Validationf("confirm a company before adding people")
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return domain.Validationf("first and last name are required")
	}
	f.people = append(f.people, p)
	f.candidates = nil
	f.selected = make(map[int]bool)
	return nil
}

// People returns a copy of the working people list.
func (f *Flow) People() []domain.Person {
	out := make([]domain.Person, len(f.people))
	copy(out, f.people)
	return out
}

// Generate expands the bound format once per person, producing one
// candidate per person in entry order.
func (f *Flow) Generate() ([]string, error) {
	if f.state != StateAddingPeople {
		return nil, domain.Validationf("confirm a company before generating")
	}
	candidates, err := format.ExpandAll(f.emailFormat, f.domain, f.people)
	if err != nil {
		return nil, err
	}
	f.candidates = candidates
	f.selected = make(map[int]bool)
	return f.Candidates(), nil
}

// Candidates returns a copy of the generated candidate list.
func (f *Flow) Candidates() []string {
	out := make([]string, len(f.candidates))
	copy(out, f.candidates)
	return out
}

// Toggle flips membership of one candidate in the selected set.
func (f *Flow) Toggle(index int) error {
	if index < 0 || index >= len(f.candidates) {
		return domain.Validationf("candidate index %d out of range", index)
	}
	if f.selected[index] {
		delete(f.selected, index)
	} else {
		f.selected[index] = true
	}
	return nil
}

// ToggleAll selects every candidate, or deselects all when every
// candidate is already selected.
func (f *Flow) ToggleAll() {
	if len(f.selected) == len(f.candidates) && len(f.candidates) > 0 {
		f.selected = make(map[int]bool)
		return
	}
	for i := range f.candidates {
		f.selected[i] = true
	}
}

// Selected returns the selected candidates in candidate order.
func (f *Flow) Selected() []string {
	var out []string
	for i, c := range f.candidates {
		if f.selected[i] {
			out = append(out, c)
		}
	}
	return out
}

// Commit appends the selected candidates to the accumulated recipient
// list (comma-separated accumulation, not replacement) and fully resets
// the working state back to StateEnteringCompany.
func (f *Flow) Commit() string {
	selected := f.Selected()
	if len(selected) > 0 {
		if f.recipients != "" {
			f.recipients += ", "
		}
		f.recipients += strings.Join(selected, ", ")
	}
	f.reset()
	return f.recipients
}

// Cancel discards the working state without touching the recipient list.
func (f *Flow) Cancel() {
	f.reset()
}

func (f *Flow) reset() {
	f.state = StateEnteringCompany
	f.companyName = ""
	f.domain = ""
	f.emailFormat = ""
	f.people = nil
	f.candidates = nil
	f.selected = make(map[int]bool)
}

// Snapshot is the JSON view of a flow returned to the operator.
type Snapshot struct {
	State       State           `json:"state"`
	CompanyName string          `json:"company_name,omitempty"`
	Domain      string          `json:"domain,omitempty"`
	EmailFormat string          `json:"email_format,omitempty"`
	People      []domain.Person `json:"people"`
	Candidates  []string        `json:"candidates"`
	Selected    []string        `json:"selected"`
	Recipients  string          `json:"recipients"`
}

// Snapshot captures the current flow state.
func (f *Flow) Snapshot() Snapshot {
	return Snapshot{
		State:       f.state,
		CompanyName: f.companyName,
		Domain:      f.domain,
		EmailFormat: f.emailFormat,
		People:      f.People(),
		Candidates:  f.Candidates(),
		Selected:    f.Selected(),
		Recipients:  f.recipients,
	}
}
