package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// MaxExpressionLength bounds user supplied predicates.
const MaxExpressionLength = 512

// Record is the only environment a predicate can see.
// String tests use expr's infix operators, not method calls:
//
//	Genre == 'Krimi & Thriller' and Author contains 'King'
//	Title startsWith 'Die' or ReadCount > 2
type Record struct {
	Title       string
	Author      string
	Genre       string
	Nationality string
	AcquiredVia string
	ReadDates   []string
	ReadCount   int
	NoteCount   int
}

func recordOf(b *domain.AcquiredBook) Record {
	return Record{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Nationality: b.Nationality,
		AcquiredVia: string(b.AcquiredVia),
		ReadDates:   append([]string{}, b.ReadDates...),
		ReadCount:   len(b.ReadDates),
		NoteCount:   len(b.Notes),
	}
}

// Predicate is a compiled, type-checked boolean expression over a Record.
type Predicate struct {
	program *vm.Program
}

// stringOperators are written infix; "Author.contains('x')" does not compile
var stringOperators = []string{"contains", "startsWith", "endsWith"}

// Compile checks src against the Record environment.
// Unknown identifiers and non-boolean results are rejected here.
func Compile(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", domain.ErrQueryEvaluation)
	}
	if len(src) > MaxExpressionLength {
		return nil, fmt.Errorf("%w: expression longer than %d characters", domain.ErrQueryEvaluation, MaxExpressionLength)
	}

	program, err := expr.Compile(src, expr.Env(Record{}), expr.AsBool())
	if err != nil {
		if op := methodStyle(src); op != "" {
			return nil, fmt.Errorf("%w: %w (write %q as an operator, e.g. Author %s 'King')",
				domain.ErrQueryEvaluation, err, op, op)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryEvaluation, err)
	}

	return &Predicate{program: program}, nil
}

// methodStyle returns the string operator src calls like a method, if any
func methodStyle(src string) string {
	for _, op := range stringOperators {
		if strings.Contains(src, "."+op+"(") {
			return op
		}
	}
	return ""
}

// Match evaluates the predicate for one book
func (p *Predicate) Match(b *domain.AcquiredBook) (bool, error) {
	out, err := expr.Run(p.program, recordOf(b))
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrQueryEvaluation, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: expression returned %T", domain.ErrQueryEvaluation, out)
	}
	return ok, nil
}
