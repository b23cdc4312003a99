//go:build !windows && !linux

package display

type unsupportedProvider struct{}

// NewProvider returns a stub provider on platforms without a display backend.
func NewProvider() Provider {
	return unsupportedProvider{}
}

func (unsupportedProvider) Query(target string) (Mode, error) {
	return Mode{}, ErrUnsupported
}

func (unsupportedProvider) Apply(target string, mode Mode, flag ApplyFlag) error {
	return ErrUnsupported
}

func (unsupportedProvider) Displays() ([]DisplayInfo, error) {
	return nil, ErrUnsupported
}
