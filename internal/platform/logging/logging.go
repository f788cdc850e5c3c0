package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

// New builds the root logger. Components take named sub-loggers from it.
func New(level string, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tempo",
		Level:  hclog.LevelFromString(level),
		Output: out,
	})
}

// Discard is used by tests and by one-shot commands that print their own output.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
