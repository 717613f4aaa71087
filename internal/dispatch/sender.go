package dispatch

import (
	"context"

	"github.com/rs/zerolog"
)

// Sender delivers a recorded notification to a recipient over some transport
// channel. Implementations are called once per recipient per publication,
// after the notification row exists. A returned error is retried per
// recipient and never aborts the rest of the fan-out.
type Sender interface {
	Deliver(ctx context.Context, recipientID, postID uint) error
}

// LogSender is the default Sender: it writes a structured log line instead of
// reaching an external channel.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Deliver logs the delivery
func (s *LogSender) Deliver(ctx context.Context, recipientID, postID uint) error {
	s.log.Info().
		Uint("recipient_id", recipientID).
		Uint("post_id", postID).
		Msg("notification delivered")
	return nil
}
