// Package distractor produces the three wrong answers for a quiz question.
// It is a two-path contract: an external text generator when one is
// configured, and a deterministic fallback that needs no network and never
// fails. The pipeline never returns fewer than three options and never
// surfaces an error to the caller.
package distractor

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// Generator is the external distractor service: given a word, its correct
// definition and an optional gloss, it proposes candidate wrong answers.
// Any failure (timeout, malformed payload, quota) routes to the fallback.
type Generator interface {
	Generate(ctx context.Context, word, correctDefinition, gloss string) ([]string, error)
}

// Count is the number of distractors per question.
const Count = 3

// DefaultTimeout bounds one generator call.
const DefaultTimeout = 5 * time.Second

// genericGlosses pad the fallback when the pool is too small to sample
// three distinct words from.
var genericGlosses = []string{
	"a kind of animal",
	"a kind of plant",
	"a tool or instrument",
	"a type of food",
	"a state of mind",
	"a unit of measurement",
	"a weather phenomenon",
	"a manner of movement",
}

// Pipeline implements the two-path distractor contract.
type Pipeline struct {
	generator Generator // nil means fallback only
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGenerator attaches the external generator.
func WithGenerator(g Generator) Option {
	return func(p *Pipeline) { p.generator = g }
}

// WithTimeout bounds each generator call.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewPipeline builds a pipeline. Without options it is fallback-only.
func NewPipeline(logger logrus.FieldLogger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	p := &Pipeline{
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DistractorsFor returns exactly three strings, none equal to the correct
// definition (case-insensitive, whitespace-normalized) and no duplicates
// among themselves.
func (p *Pipeline) DistractorsFor(ctx context.Context, word *entity.Word, correctDefinition string, pool []*entity.Word) []string {
	picks := newOptionSet(correctDefinition)

	if p.generator != nil {
		// One retry on a rejected or short response, then fall back.
		for attempt := 0; attempt < 2 && picks.len() < Count; attempt++ {
			p.generate(ctx, word, correctDefinition, picks)
		}
	}

	if picks.len() < Count {
		p.fallback(word, picks, pool)
	}
	return picks.options()
}

// Fallback deterministically samples other pool words, starting at an
// offset derived from the target word so the same question always gets the
// same options. Independently testable and always available.
func (p *Pipeline) Fallback(word *entity.Word, correctDefinition string, pool []*entity.Word) []string {
	picks := newOptionSet(correctDefinition)
	p.fallback(word, picks, pool)
	return picks.options()
}

func (p *Pipeline) generate(ctx context.Context, word *entity.Word, correctDefinition string, picks *optionSet) {
	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	gloss := ""
	if len(word.Definitions) > 1 {
		gloss = word.Definitions[1].Text
	}
	candidates, err := p.generator.Generate(genCtx, word.Text, correctDefinition, gloss)
	if err != nil {
		p.logger.WithField("word", word.Key).WithError(err).Warn("distractor generator unavailable, using fallback")
		return
	}
	for _, c := range candidates {
		if picks.len() == Count {
			break
		}
		picks.add(c)
	}
}

func (p *Pipeline) fallback(word *entity.Word, picks *optionSet, pool []*entity.Word) {
	others := make([]string, 0, len(pool))
	for _, w := range pool {
		if w.Key == word.Key || w.Text == "" {
			continue
		}
		others = append(others, w.Text)
	}
	sort.Strings(others)

	if len(others) > 0 {
		h := fnv.New32a()
		h.Write([]byte(word.Key))
		start := int(h.Sum32()) % len(others)
		if start < 0 {
			start += len(others)
		}
		for i := 0; i < len(others) && picks.len() < Count; i++ {
			other := others[(start+i)%len(others)]
			picks.add(other + "'s related meaning")
		}
	}

	for _, gloss := range genericGlosses {
		if picks.len() == Count {
			break
		}
		picks.add(gloss)
	}
}

// optionSet collects candidate distractors while enforcing the uniqueness
// invariant against the correct answer and earlier picks.
type optionSet struct {
	correct string
	seen    map[string]bool
	picked  []string
}

func newOptionSet(correctDefinition string) *optionSet {
	return &optionSet{
		correct: normalizeOption(correctDefinition),
		seen:    make(map[string]bool, Count),
	}
}

func (s *optionSet) add(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	norm := normalizeOption(trimmed)
	if norm == "" || norm == s.correct || s.seen[norm] {
		return false
	}
	s.seen[norm] = true
	s.picked = append(s.picked, trimmed)
	return true
}

func (s *optionSet) len() int { return len(s.picked) }

func (s *optionSet) options() []string { return s.picked }

func normalizeOption(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
