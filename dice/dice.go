// Package dice parses and rolls tabletop dice formulas such as "4d6kh3 + 2".
package dice

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/juju/errors"
)

const ErrInvalidFormula = errors.ConstError("invalid dice formula")

const (
	MaxDice          = 100
	MinSides         = 2
	MaxSides         = 1000
	MaxConstant      = 1000000
	MaxTerms         = 20
	maxFormulaLength = 200
)

// Term is a group of dice or a constant, added to or subtracted from the total
type Term struct {
	Negative   bool
	Count      int // 0 for constants
	Sides      int
	Keep       int // 0 keeps every die
	KeepLowest bool
	Constant   int
}

func (t Term) IsConstant() bool {
	return t.Count == 0
}

func (t Term) String() string {
	if t.IsConstant() {
		return strconv.Itoa(t.Constant)
	}
	s := strconv.Itoa(t.Count) + "d" + strconv.Itoa(t.Sides)
	if t.Keep > 0 {
		if t.KeepLowest {
			s += "kl"
		} else {
			s += "kh"
		}
		s += strconv.Itoa(t.Keep)
	}
	return s
}

// Formula is a parsed, normalized dice formula
type Formula []Term

func (f Formula) String() string {
	b := strings.Builder{}
	for i, t := range f {
		switch {
		case t.Negative:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(t.String())
	}
	s := b.String()
	if strings.HasPrefix(s, " - ") {
		s = "-" + s[3:]
	}
	return s
}

type parser struct {
	in  string
	pos int
}

func (p *parser) peek() byte {
	if p.pos < len(p.in) {
		return p.in[p.pos]
	}
	return 0
}

func (p *parser) number() (int, bool, error) {
	start := p.pos
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, false, nil
	}
	if p.pos-start > 7 {
		return 0, true, fmt.Errorf("%w: number %s too large", ErrInvalidFormula, p.in[start:p.pos])
	}
	n, err := strconv.Atoi(p.in[start:p.pos])
	return n, true, err
}

func (p *parser) term() (t Term, err error) {
	n, hasCount, err := p.number()
	if err != nil {
		return t, err
	}
	if p.peek() != 'd' {
		if !hasCount {
			return t, fmt.Errorf("%w: expected a number or dice at position %d", ErrInvalidFormula, p.pos+1)
		}
		if n > MaxConstant {
			return t, fmt.Errorf("%w: constant %d is larger than %d", ErrInvalidFormula, n, MaxConstant)
		}
		t.Constant = n
		return t, nil
	}
	p.pos++
	t.Count = 1
	if hasCount {
		t.Count = n
	}
	if t.Count < 1 || t.Count > MaxDice {
		return t, fmt.Errorf("%w: between 1 and %d dice can be rolled at once", ErrInvalidFormula, MaxDice)
	}
	sides, ok, err := p.number()
	if err != nil {
		return t, err
	}
	if !ok || sides < MinSides || sides > MaxSides {
		return t, fmt.Errorf("%w: dice need between %d and %d sides", ErrInvalidFormula, MinSides, MaxSides)
	}
	t.Sides = sides
	if p.peek() != 'k' {
		return t, nil
	}
	p.pos++
	switch p.peek() {
	case 'h':
	case 'l':
		t.KeepLowest = true
	default:
		return t, fmt.Errorf("%w: expected kh or kl at position %d", ErrInvalidFormula, p.pos)
	}
	p.pos++
	keep, ok, err := p.number()
	if err != nil {
		return t, err
	}
	if !ok || keep < 1 || keep > t.Count {
		return t, fmt.Errorf("%w: can keep between 1 and %d dice", ErrInvalidFormula, t.Count)
	}
	t.Keep = keep
	return t, nil
}

// Parse reads a formula made of dice terms (NdM, dM, optional khK or klK)
// and integer constants joined by + and -. Case and spaces are ignored.
func Parse(formula string) (Formula, error) {
	if len(formula) > maxFormulaLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidFormula, maxFormulaLength)
	}
	in := strings.ToLower(strings.Join(strings.Fields(formula), ""))
	if in == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFormula)
	}
	p := parser{in: in}
	result := Formula{}
	negative := false
	if c := p.peek(); c == '-' || c == '+' {
		negative = c == '-'
		p.pos++
	}
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		t.Negative = negative
		result = append(result, t)
		if len(result) > MaxTerms {
			return nil, fmt.Errorf("%w: more than %d terms", ErrInvalidFormula, MaxTerms)
		}
		switch p.peek() {
		case 0:
			return result, nil
		case '+':
			negative = false
		case '-':
			negative = true
		default:
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidFormula, p.peek(), p.pos+1)
		}
		p.pos++
	}
}

// Die is one rolled die, Dropped by a keep modifier
type Die struct {
	Value   int  `json:"value"`
	Dropped bool `json:"dropped,omitempty"`
}

type TermResult struct {
	Term  Term  `json:"-"`
	Dice  []Die `json:"dice,omitempty"`
	Value int   `json:"value"`
}

type Result struct {
	Formula Formula      `json:"-"`
	Terms   []TermResult `json:"terms"`
	Total   int          `json:"total"`
}

// String shows every die, e.g. "4d6kh3 [6, 4, ~1, 3] + 2 = 15"
func (r Result) String() string {
	b := strings.Builder{}
	for i, t := range r.Terms {
		switch {
		case t.Term.Negative && i == 0:
			b.WriteString("-")
		case t.Term.Negative:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(t.Term.String())
		if t.Term.IsConstant() {
			continue
		}
		values := make([]string, len(t.Dice))
		for j, d := range t.Dice {
			values[j] = strconv.Itoa(d.Value)
			if d.Dropped {
				values[j] = "~" + values[j]
			}
		}
		b.WriteString(" [" + strings.Join(values, ", ") + "]")
	}
	b.WriteString(" = " + strconv.Itoa(r.Total))
	return b.String()
}

// Roller rolls formulas with its own random source
type Roller struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRoller returns a roller drawing from src, a nil src uses the global generator
func NewRoller(src rand.Source) *Roller {
	r := &Roller{}
	if src != nil {
		r.rnd = rand.New(src)
	}
	return r
}

func (r *Roller) intN(n int) int {
	if r.rnd == nil {
		return rand.IntN(n)
	}
	return r.rnd.IntN(n)
}

func (r *Roller) Roll(formula string) (Result, error) {
	f, err := Parse(formula)
	if err != nil {
		return Result{}, err
	}
	return r.RollFormula(f), nil
}

func (r *Roller) RollFormula(f Formula) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := Result{Formula: f, Terms: make([]TermResult, 0, len(f))}
	for _, t := range f {
		tr := TermResult{Term: t}
		if t.IsConstant() {
			tr.Value = t.Constant
		} else {
			tr.Dice = make([]Die, t.Count)
			for i := range tr.Dice {
				tr.Dice[i].Value = r.intN(t.Sides) + 1
			}
			dropLowest(t, tr.Dice)
			for _, d := range tr.Dice {
				if !d.Dropped {
					tr.Value += d.Value
				}
			}
		}
		if t.Negative {
			result.Total -= tr.Value
		} else {
			result.Total += tr.Value
		}
		result.Terms = append(result.Terms, tr)
	}
	return result
}

// dropLowest marks the dice a keep modifier discards, ties drop the later die
func dropLowest(t Term, dice []Die) {
	if t.Keep == 0 || t.Keep >= len(dice) {
		return
	}
	order := make([]int, len(dice))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if t.KeepLowest {
			return dice[a].Value - dice[b].Value
		}
		return dice[b].Value - dice[a].Value
	})
	for _, i := range order[t.Keep:] {
		dice[i].Dropped = true
	}
}
