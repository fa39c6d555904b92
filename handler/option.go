package handler

import "go.uber.org/zap"

// SenderOption defines an interface for applying configuration options to Sender instances.
type SenderOption interface {
	applySender(*Sender)
}

// ProcessorOption defines an interface for applying configuration options to Processor instances.
type ProcessorOption interface {
	applyProcessor(*Processor)
}

// WithLogger returns an option to replace the no-op logger of a Sender or Processor.
func WithLogger(l *zap.Logger) LoggerOption {
	return LoggerOption{l}
}

// LoggerOption is an option type setting the logger for senders and processors.
type LoggerOption struct {
	l *zap.Logger
}

func (o LoggerOption) applySender(s *Sender) {
	s.log = o.l
}

func (o LoggerOption) applyProcessor(p *Processor) {
	p.log = o.l
}

// WithIDGenerator returns an option to replace the deduplication id generator of a Sender.
func WithIDGenerator(fn func() string) IDGeneratorOption {
	return IDGeneratorOption(fn)
}

// IDGeneratorOption is an option type for setting the deduplication id generator of a Sender.
type IDGeneratorOption func() string

func (o IDGeneratorOption) applySender(s *Sender) {
	s.newID = o
}
