//go:build !linux

package platform

type Tap struct{}

func OpenTap(name string) (*Tap, error) {
	return nil, ErrNotSupported
}

func (t *Tap) Read(b []byte) (int, error) {
	return 0, ErrNotSupported
}

func (t *Tap) Write(b []byte) (int, error) {
	return 0, ErrNotSupported
}

func (t *Tap) Close() error {
	return ErrNotSupported
}

func (t *Tap) Name() string {
	return ""
}

func (t *Tap) MTU() (int, error) {
	return 0, ErrNotSupported
}
