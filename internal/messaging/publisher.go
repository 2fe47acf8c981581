package messaging

import (
	"encoding/json"
	"log/slog"
)

// Subscriber is the subscribe side of the bus. NatsServer implements it.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// JSONHandler adapts a typed handler to a raw message handler. Messages
// that do not decode are logged and dropped.
func JSONHandler[T any](subject string, handler func(T)) func([]byte) {
	return func(data []byte) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			slog.Warn("dropping undecodable message", "subject", subject, "error", err)
			return
		}
		handler(v)
	}
}

// SubscribeJSON subscribes handler to subject, decoding each payload as T.
func SubscribeJSON[T any](sub Subscriber, subject string, handler func(T)) (func(), error) {
	return sub.Subscribe(subject, JSONHandler(subject, handler))
}
