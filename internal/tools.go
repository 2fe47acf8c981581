package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompt writes prompt to w and reads one line from r, repeating until the
// validator accepts it. r is shared with the caller so no input is lost to
// a private buffer.
func Prompt(r *bufio.Reader, w io.Writer, prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if _, err := io.WriteString(w, prompt); err != nil {
			return "", err
		}

		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		input := strings.TrimSpace(line)

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := io.WriteString(w, msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					return "", fmt.Errorf("too many tries")
				}

				continue
			}
		}

		return input, nil
	}
}

// ParseYN reads a yes/no answer. ok is false when str is neither.
func ParseYN(str string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

func PromptYN(r *bufio.Reader, w io.Writer, prompt string) (bool, error) {
	str, err := Prompt(r, w, prompt, WithValidator(
		func(str string) (bool, string) {
			if _, ok := ParseYN(str); !ok {
				return false, "enter 'yes' or 'no'\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return false, err
	}

	yes, _ := ParseYN(str)
	return yes, nil
}
