package internal

import "context"

// Configurer is implemented by every component that reads its settings
// from the environment map built by Envs.
type Configurer interface {
	Configure(envs map[string]string) error
}

type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

// Clearer drops any state held by a component (e.g. cache entries or
// counters) without closing it.
type Clearer interface {
	Clear(ctx context.Context) error
}
