package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/simwork/internal/messaging"
)

const defaultStartTimeout = 10 * time.Second

type NatsConfig struct {
	StartTimeout string `json:"start_timeout"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}

	return el.Err()
}

func (n *NatsConfig) startTimeout() time.Duration {
	if n.StartTimeout == "" {
		return defaultStartTimeout
	}
	d, err := time.ParseDuration(n.StartTimeout)
	if err != nil {
		return defaultStartTimeout
	}
	return d
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	s, err := messaging.NewNatsServer(messaging.WithStartTimeout(n.startTimeout()))
	if err != nil {
		return nil, err
	}

	return s, nil
}
