package step

import (
	"fmt"
	"strings"
)

// Argv resolves the configured execute value into an argument vector. A
// scalar string becomes a single-element vector; a list is taken as-is. A
// step without an execute value resolves to nil (traits supply the body).
func (s *Step) Argv() ([]string, error) {
	switch v := s.execute.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		argv := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				argv[i] = fmt.Sprint(item)
				continue
			}
			argv[i] = str
		}
		return argv, nil
	case []string:
		return append([]string(nil), v...), nil
	default:
		return nil, fmt.Errorf("step %s: attribute \"execute\": expected string or list, got %T", s.name, v)
	}
}

// Executable returns the first argv element, or "".
func (s *Step) Executable() (string, error) {
	argv, err := s.Argv()
	if err != nil || len(argv) == 0 {
		return "", err
	}
	return argv[0], nil
}

// ResolvedCommand renders argv as a single shell-quotable command line.
func (s *Step) ResolvedCommand() (string, error) {
	argv, err := s.Argv()
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " "), nil
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
