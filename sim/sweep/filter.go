package sweep

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/virosim/virosim/sim/record"
)

// Op is a comparison operator of a subset filter.
type Op string

const (
	OpGT Op = ">"
	OpGE Op = ">="
	OpLT Op = "<"
	OpLE Op = "<="
	OpEQ Op = "=="
	OpNE Op = "!="
)

func (o Op) apply(a, b float64) bool {
	switch o {
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	}
	return false
}

// Filter keeps runs whose key row satisfies Op against Value. With AnyStep
// a single sampled step suffices; otherwise the final sample is compared.
type Filter struct {
	Key     string
	Row     int
	AnyStep bool
	Op      Op
	Value   float64
}

// filterPattern matches "key", "key[row]" and an optional "@any" followed
// by an operator and a number.
var filterPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)(?:\[(\d+)\])?(@any)?\s*(>=|<=|==|!=|>|<)\s*(\S+)\s*$`)

// ParseFilter parses expressions such as "proteins_nuc[4] > 100" or
// "progeny_count@any >= 1".
func ParseFilter(expr string) (Filter, error) {
	m := filterPattern.FindStringSubmatch(expr)
	if m == nil {
		return Filter{}, fmt.Errorf("invalid filter %q (want key[row] op value)", expr)
	}
	f := Filter{Key: m[1], AnyStep: m[3] != "", Op: Op(m[4])}
	if m[2] != "" {
		row, err := strconv.Atoi(m[2])
		if err != nil {
			return Filter{}, fmt.Errorf("invalid filter %q: %w", expr, err)
		}
		f.Row = row
	}
	v, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	f.Value = v
	return f, nil
}

// Match reports whether run satisfies f. A run without the key never matches.
func (f Filter) Match(run *record.Memory) bool {
	s, ok := run.Series(f.Key)
	if !ok || s.Len() == 0 {
		return false
	}
	col := s.Column(f.Row)
	if !f.AnyStep {
		return f.Op.apply(col[len(col)-1], f.Value)
	}
	for _, v := range col {
		if f.Op.apply(v, f.Value) {
			return true
		}
	}
	return false
}

// Subset returns the indices of runs matching every filter.
func Subset(runs []*record.Memory, filters []Filter) []int {
	var out []int
	for i, run := range runs {
		ok := true
		for _, f := range filters {
			if !f.Match(run) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}
