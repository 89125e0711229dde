package app

// Lazy builds the App on first use, after command-line flags have been
// parsed, and remembers the result.
type Lazy struct {
	build   func() (*App, func(), error)
	app     *App
	cleanup func()
	err     error
	done    bool
}

func NewLazy(build func() (*App, func(), error)) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) Get() (*App, error) {
	if !l.done {
		l.app, l.cleanup, l.err = l.build()
		l.done = true
	}
	return l.app, l.err
}

// Close releases the App if it was built.
func (l *Lazy) Close() {
	if l.cleanup != nil {
		l.cleanup()
		l.cleanup = nil
	}
}
