// Package fakegate provides a fake implementation of confirm.Gate for testing.
package fakegate

// Gate is a fake implementation of confirm.Gate for testing.
type Gate struct {
	answers      map[string]bool
	answer       bool
	echoDefaults bool
	prompts      []string
}

// New creates a gate answering every prompt with answer.
func New(answer bool) *Gate {
	return &Gate{
		answers: make(map[string]bool),
		answer:  answer,
	}
}

// NewDefaults creates a gate that echoes each prompt's own default answer,
// matching non-interactive behavior.
func NewDefaults() *Gate {
	return &Gate{
		answers:      make(map[string]bool),
		echoDefaults: true,
	}
}

// SetAnswer pins the answer for one exact prompt.
func (g *Gate) SetAnswer(prompt string, answer bool) {
	g.answers[prompt] = answer
}

// Confirm implements confirm.Gate.
func (g *Gate) Confirm(prompt string, defaultYes bool) (bool, error) {
	g.prompts = append(g.prompts, prompt)

	if answer, exists := g.answers[prompt]; exists {
		return answer, nil
	}
	if g.echoDefaults {
		return defaultYes, nil
	}
	return g.answer, nil
}

// GetPrompts returns every prompt asked, in order.
func (g *Gate) GetPrompts() []string {
	return g.prompts
}
