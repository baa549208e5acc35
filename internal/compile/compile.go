package compile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/dt-pm-tools/ticket2task/internal/ticket"
)

// Extractor selects which extraction path a compile call runs.
type Extractor string

const (
	// ExtractorRules is the deterministic rule-table path.
	ExtractorRules Extractor = "rules"
	// ExtractorModel is the generative path.
	ExtractorModel Extractor = "model"
)

// Compiler orchestrates one compile call: run the selected extractor,
// then Normalize. It holds no mutable state; concurrent calls are
// independent.
type Compiler struct {
	Rules   rules.RuleSet
	BaseURL string // issue browse base, e.g. https://tracker.example.com
	Gen     Generator

	// Now supplies "today" for due-date defaulting; nil means wall clock.
	Now func() time.Time
}

// New returns a Compiler over the given rule set. gen may be nil when
// only the deterministic path is used.
func New(rs rules.RuleSet, baseURL string, gen Generator) *Compiler {
	return &Compiler{Rules: rs, BaseURL: baseURL, Gen: gen}
}

// Compile turns raw ticket XML into a fully-normalized Task. Parse and
// backend failures propagate unchanged; no new failure modes are added.
func (c *Compiler) Compile(ctx context.Context, rawXML []byte, extractor Extractor) (Task, error) {
	var task Task

	switch extractor {
	case ExtractorRules, "":
		t, err := ticket.Parse(rawXML)
		if err != nil {
			return Task{}, err
		}
		task = ExtractDeterministic(t, c.Rules, c.BaseURL)
	case ExtractorModel:
		if c.Gen == nil {
			return Task{}, errors.New("no generative backend configured")
		}
		var err error
		task, err = ExtractGenerative(ctx, string(rawXML), c.Rules, c.Gen)
		if err != nil {
			return Task{}, err
		}
	default:
		return Task{}, fmt.Errorf("unknown extractor %q (valid: rules, model)", extractor)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Normalize(task, now()), nil
}
