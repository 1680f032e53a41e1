package observability

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/gdl90/internal/logging"
)

// LogFrame writes one decode outcome. Failures log at warn, skipped frames
// at debug and decoded frames at trace so a busy stream stays quiet.
func LogFrame(logger zerolog.Logger, message, outcome string, size int, duration time.Duration, err error) {
	event := logger.Trace()
	switch {
	case err != nil:
		event = logger.Warn().Err(err)
	case outcome == OutcomeSkipped:
		event = logger.Debug()
	}
	event.
		Str(logging.MessageTypeKey, message).
		Str("outcome", outcome).
		Int("bytes", size).
		Dur("duration", duration).
		Msg("frame")
}
