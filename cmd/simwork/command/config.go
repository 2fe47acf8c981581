package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/simwork/internal/driver"
)

const maxFrameInterval = time.Second

type Config struct {
	FrameInterval string        `json:"frame_interval" env:"SIMWORK_FRAME_INTERVAL"`
	LogLevel      slog.Level    `json:"log_level" env:"SIMWORK_LOG_LEVEL"`
	Storage       StorageConfig `json:"storage"`
	Nats          NatsConfig    `json:"nats"`
	Console       ConsoleConfig `json:"console"`
	Scene         SceneConfig   `json:"scene"`
}

// Validate applies environment overrides and then checks every section.
func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if err := env.Parse(c); err != nil {
		el.Add(fmt.Errorf("reading environment: %w", err))
	}

	if c.FrameInterval != "" {
		d, err := time.ParseDuration(c.FrameInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing frame_interval: %w", err))
		} else if d <= 0 || d > maxFrameInterval {
			el.Add(fmt.Errorf("frame_interval must be positive and at most %s", maxFrameInterval))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Console.validate())
	el.Add(c.Scene.validate())

	return el.Err()
}

func (c *Config) buildLoop() (*driver.Loop, error) {
	var opts []driver.LoopOpt
	if c.FrameInterval != "" {
		d, err := time.ParseDuration(c.FrameInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing frame_interval: %w", err)
		}
		opts = append(opts, driver.WithFrameInterval(d))
	}
	return driver.NewLoop(opts...), nil
}
