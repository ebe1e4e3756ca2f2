package auth

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	clock  func() time.Time
	ids    func() string
	tokens TokenGenerator
}

// Option overrides a collaborator, mostly for tests.
type Option func(*options)

func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func WithIDGenerator(ids func() string) Option {
	return func(o *options) { o.ids = ids }
}

func WithTokenGenerator(tokens TokenGenerator) Option {
	return func(o *options) { o.tokens = tokens }
}

func applyOptions(opts []Option) options {
	o := options{
		clock:  time.Now,
		ids:    uuid.NewString,
		tokens: RandomToken,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
