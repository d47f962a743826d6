//go:build linux

package platform

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Tap is a kernel TAP device carrying raw Ethernet frames.
type Tap struct {
	fd   int
	name string
}

// OpenTap creates or attaches to the named TAP interface.
func OpenTap(name string) (*Tap, error) {
	if name == "" {
		return nil, errors.New("platform: tap interface name required")
	}
	if len(name) >= unix.IFNAMSIZ {
		return nil, fmt.Errorf("platform: tap interface name %q too long", name)
	}
	fd, err := unix.Open("/dev/net/tun", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("platform: open /dev/net/tun: %w", err)
	}
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	ifr.SetUint16(unix.IFF_TAP | unix.IFF_NO_PI)
	if err := unix.IoctlIfreq(fd, unix.TUNSETIFF, ifr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("platform: create tap %s: %w", name, err)
	}
	return &Tap{fd: fd, name: ifr.Name()}, nil
}

func (t *Tap) Read(b []byte) (int, error) {
	return unix.Read(t.fd, b)
}

func (t *Tap) Write(b []byte) (int, error) {
	return unix.Write(t.fd, b)
}

func (t *Tap) Close() error {
	return unix.Close(t.fd)
}

func (t *Tap) Name() string {
	return t.name
}

// MTU queries the interface MTU from the network stack.
func (t *Tap) MTU() (int, error) {
	sock, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return 0, err
	}
	defer unix.Close(sock)
	ifr, err := unix.NewIfreq(t.name)
	if err != nil {
		return 0, err
	}
	if err := unix.IoctlIfreq(sock, unix.SIOCGIFMTU, ifr); err != nil {
		return 0, err
	}
	return int(ifr.Uint32()), nil
}
