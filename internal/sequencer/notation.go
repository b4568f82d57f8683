package sequencer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseSteps reads a compact step notation, one character per step:
//
//	x      on, value 1
//	0-9    on, value n/9
//	. -    off
//	?NN    suffix: probability NN percent (bare ? is 50)
//	[..]N  repeat the bracketed steps N times (default 2)
//
// Spaces and '|' are ignored.
func ParseSteps(src string) ([]Step, error) {
	expanded, err := expandRepeats(src)
	if err != nil {
		return nil, err
	}
	var steps []Step
	for i := 0; i < len(expanded); {
		ch := unicode.ToLower(rune(expanded[i]))
		var st Step
		switch {
		case ch == ' ' || ch == '|' || ch == '\t':
			i++
			continue
		case ch == '.' || ch == '-':
			st = Step{Value: 1, Probability: 1}
		case ch == 'x':
			st = Step{Value: 1, Probability: 1, Enabled: true}
		case ch >= '0' && ch <= '9':
			st = Step{Value: float64(ch-'0') / 9, Probability: 1, Enabled: true}
		default:
			return nil, fmt.Errorf("steps: unexpected %q at %d", ch, i)
		}
		i++
		if i < len(expanded) && expanded[i] == '?' {
			pct, next := parseNumber(expanded, i+1)
			if pct < 0 {
				pct = 50
			}
			if pct > 100 {
				return nil, fmt.Errorf("steps: probability %d%% out of range at %d", pct, i)
			}
			st.Probability = float64(pct) / 100
			i = next
		}
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("steps: empty pattern")
	}
	return steps, nil
}

// FormatSteps writes steps back in the notation ParseSteps reads.
func FormatSteps(steps []Step) string {
	var b strings.Builder
	for i, st := range steps {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		switch {
		case !st.Enabled:
			b.WriteByte('.')
		case st.Value >= 1:
			b.WriteByte('x')
		default:
			b.WriteByte(byte('0' + int(st.Value*9+0.5)))
		}
		if st.Enabled && st.Probability < 1 {
			b.WriteString("?" + strconv.Itoa(int(st.Probability*100+0.5)))
		}
	}
	return b.String()
}

// SetLaneSteps replaces a lane's steps, remapping them onto the current
// step length when the counts differ.
func (s *Sequencer) SetLaneSteps(id string, steps []Step) bool {
	l := s.lane(id)
	if l == nil || len(steps) == 0 {
		return false
	}
	next := make([]Step, len(steps))
	for i, st := range steps {
		st.Value = clamp(finite(st.Value), 0, 1)
		st.Probability = clamp(finite(st.Probability), 0, 1)
		next[i] = st
	}
	if len(next) != s.stepLength {
		next = remap(next, s.stepLength)
	}
	l.Steps = next
	s.revision++
	return true
}

func expandRepeats(s string) (string, error) {
	out, next, err := expandFrom(s, 0, false)
	if err != nil {
		return "", err
	}
	if next != len(s) {
		return "", fmt.Errorf("steps: unmatched ']' at %d", next)
	}
	return out, nil
}

func expandFrom(s string, at int, nested bool) (string, int, error) {
	var b strings.Builder
	i := at
	for i < len(s) {
		switch s[i] {
		case '[':
			inner, next, err := expandFrom(s, i+1, true)
			if err != nil {
				return "", at, err
			}
			n, after := parseNumber(s, next)
			if n < 0 {
				n = 2
			}
			b.WriteString(strings.Repeat(inner, n))
			i = after
		case ']':
			if !nested {
				return b.String(), i, nil
			}
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	if nested {
		return "", at, fmt.Errorf("steps: unclosed '['")
	}
	return b.String(), i, nil
}

// parseNumber reads decimal digits at s[at:]; -1 means none were present.
func parseNumber(s string, at int) (int, int) {
	i := at
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == at {
		return -1, i
	}
	n, err := strconv.Atoi(s[at:i])
	if err != nil {
		return -1, i
	}
	return n, i
}
