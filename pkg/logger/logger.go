package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger receives progress of a directory comparison, one phase at a time.
type Logger interface {
	PhaseStart(phase string, totalItems int)
	ItemProcessed(phase string, item string, action string)
	PhaseComplete(phase string, processedItems int)
}

// Item actions reported by the compare phase.
const (
	ActionEqual    = "equal"
	ActionModified = "modified"
	ActionNew      = "new"
	ActionGone     = "gone"
)

type VerboseLogger struct {
	log *logrus.Logger
}

// NewVerboseLogger writes every phase and item to w at debug level.
func NewVerboseLogger(w io.Writer) *VerboseLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	return &VerboseLogger{log: l}
}

func (l *VerboseLogger) PhaseStart(phase string, totalItems int) {
	l.log.WithFields(logrus.Fields{"phase": phase, "items": totalItems}).Info("starting phase")
}

func (l *VerboseLogger) ItemProcessed(phase string, item string, action string) {
	l.log.WithFields(logrus.Fields{"phase": phase, "action": action}).Debug(item)
}

func (l *VerboseLogger) PhaseComplete(phase string, processedItems int) {
	l.log.WithFields(logrus.Fields{"phase": phase, "processed": processedItems}).Info("phase complete")
}

type NullLogger struct{}

func (l *NullLogger) PhaseStart(phase string, totalItems int) {}

func (l *NullLogger) ItemProcessed(phase string, item string, action string) {}

func (l *NullLogger) PhaseComplete(phase string, processedItems int) {}

// QuietLogger prints only items that need action. It is safe for concurrent use.
type QuietLogger struct {
	Out io.Writer

	mu sync.Mutex
}

func (l *QuietLogger) PhaseStart(phase string, totalItems int) {}

func (l *QuietLogger) ItemProcessed(phase string, item string, action string) {
	if action == ActionEqual {
		return
	}
	out := l.Out
	if out == nil {
		out = os.Stdout
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(out, "%s: %s\n", action, item)
}

func (l *QuietLogger) PhaseComplete(phase string, processedItems int) {}
