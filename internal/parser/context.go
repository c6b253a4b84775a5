package parser

import "fmt"

// StageContext tracks the parser's dynamic state: which characters have
// been declared, which are currently on stage, and who is speaking. It is
// threaded explicitly through the grammar functions rather than kept as
// ambient mutable state on the Parser itself, so that "who is you" stays
// an auditable parameter instead of a hidden global.
type StageContext struct {
	vars     []string
	declared map[string]bool
	onstage  []string
	present  map[string]bool
	speaking string

	// CurrentAct is the Roman numeral text of the act currently being
	// parsed, used to scope "Goto Scene N" to a label within that act.
	CurrentAct string
}

// NewStageContext returns an empty context: no declared characters, no
// one on stage, no one speaking.
func NewStageContext() *StageContext {
	return &StageContext{
		declared: make(map[string]bool),
		present:  make(map[string]bool),
	}
}

// Declare registers name as a character. Returns false if name is already
// declared.
func (c *StageContext) Declare(name string) bool {
	if c.declared[name] {
		return false
	}
	c.vars = append(c.vars, name)
	c.declared[name] = true
	return true
}

// IsDeclared reports whether name has been declared.
func (c *StageContext) IsDeclared(name string) bool {
	return c.declared[name]
}

// Enter adds name to the on-stage set. Returns an error if name is
// already present.
func (c *StageContext) Enter(name string) error {
	if c.present[name] {
		return fmt.Errorf("character %q is already on stage", name)
	}
	c.onstage = append(c.onstage, name)
	c.present[name] = true
	return nil
}

// Leave removes name from the on-stage set. Returns an error if name is
// not present.
func (c *StageContext) Leave(name string) error {
	if !c.present[name] {
		return fmt.Errorf("character %q cannot leave if they are not on stage", name)
	}
	delete(c.present, name)
	for i, n := range c.onstage {
		if n == name {
			c.onstage = append(c.onstage[:i], c.onstage[i+1:]...)
			break
		}
	}
	return nil
}

// Exeunt clears the on-stage set entirely.
func (c *StageContext) Exeunt() {
	c.onstage = nil
	c.present = make(map[string]bool)
}

// OnstageCount reports how many characters are currently on stage.
func (c *StageContext) OnstageCount() int {
	return len(c.onstage)
}

// SetSpeaking marks name as the current speaker. It must already be on
// stage.
func (c *StageContext) SetSpeaking(name string) error {
	if !c.present[name] {
		return fmt.Errorf("character %q cannot speak since they are not on stage", name)
	}
	c.speaking = name
	return nil
}

// ClearSpeaking marks that no one is currently speaking.
func (c *StageContext) ClearSpeaking() {
	c.speaking = ""
}

// Speaking returns the character currently speaking, resolving the
// first-person pronoun ("I"/"myself").
func (c *StageContext) Speaking() (string, error) {
	if c.speaking == "" {
		return "", fmt.Errorf("no one is currently speaking")
	}
	return c.speaking, nil
}

// Addressee returns the unique other character on stage, resolving the
// second-person pronoun ("you"/"thyself") and the default assignment
// target of a PrintVariable/InputVariable statement. Exactly two
// characters must be on stage.
func (c *StageContext) Addressee() (string, error) {
	if len(c.onstage) != 2 {
		return "", fmt.Errorf("there must be exactly 2 characters on stage to speak to someone")
	}
	for _, name := range c.onstage {
		if name != c.speaking {
			return name, nil
		}
	}
	return "", fmt.Errorf("could not determine who is being addressed")
}
