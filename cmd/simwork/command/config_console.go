package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

const minConsoleWidth = 20

type ConsoleConfig struct {
	// Width is the wrap width of console output.
	Width int `json:"width"`

	// Seed fixes the mock task results. Unset means random.
	Seed *uint64 `json:"seed,omitempty"`
}

func (c *ConsoleConfig) validate() error {
	el := errors.NewErrorList()

	if c.Width != 0 && c.Width < minConsoleWidth {
		el.Add(fmt.Errorf("console: width must be at least %d", minConsoleWidth))
	}

	return el.Err()
}
