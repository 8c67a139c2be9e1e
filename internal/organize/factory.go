package organize

// SaverFactory is a function that creates a Saver from engine options
// This allows for dependency injection in tests
type SaverFactory func(opts ...Option) Saver

// DefaultSaverFactory creates a real engine
var DefaultSaverFactory SaverFactory = func(opts ...Option) Saver {
	return New(opts...)
}

// CurrentSaverFactory is the currently active factory
// This can be swapped in tests
var CurrentSaverFactory = DefaultSaverFactory

// SetSaverFactory sets a custom saver factory for dependency injection
func SetSaverFactory(factory SaverFactory) {
	CurrentSaverFactory = factory
}

// ResetSaverFactory resets to the default saver factory
func ResetSaverFactory() {
	CurrentSaverFactory = DefaultSaverFactory
}
