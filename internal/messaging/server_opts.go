package messaging

import "time"

type NatsServerOpt func(*NatsServer)

// WithStartTimeout sets the startup timeout for the nats server
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

// WithName sets the server and client connection name.
func WithName(name string) NatsServerOpt {
	return func(n *NatsServer) {
		n.name = name
	}
}
