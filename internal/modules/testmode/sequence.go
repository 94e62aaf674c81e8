package testmode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
)

// Step is one line of a sequence file: "<kind>\t<id>". Words may be given
// by their text instead of an id.
type Step struct {
	Kind string
	ID   int64
	Text string
}

func ParseSequence(r io.Reader) ([]Step, error) {
	var out []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}
		cols := strings.Split(raw, "\t")
		if len(cols) < 2 {
			return nil, fmt.Errorf("line %d: expected kind<TAB>id", line)
		}
		kind := strings.ToLower(strings.TrimSpace(cols[0]))
		val := strings.TrimSpace(cols[1])
		switch kind {
		case quiz.KindWord, quiz.KindQuestion, quiz.KindExercise:
		default:
			return nil, fmt.Errorf("line %d: unknown item kind %q", line, kind)
		}

		step := Step{Kind: kind}
		if id, err := strconv.ParseInt(val, 10, 64); err == nil && id > 0 {
			step.ID = id
		} else if kind == quiz.KindWord && val != "" {
			step.Text = val
		} else {
			return nil, fmt.Errorf("line %d: invalid %s id %q", line, kind, val)
		}
		out = append(out, step)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
