// Package platform binds adapters to host network devices.
package platform

import (
	"context"
	"errors"
	"io"

	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/netdev"
)

var ErrNotSupported = errors.New("platform: tap devices not supported on this system")

// Device is a host-side frame endpoint. Read returns one full Ethernet
// frame per call.
type Device interface {
	io.ReadWriteCloser
	Name() string
}

type deviceSender struct {
	dev Device
}

func (s deviceSender) SendRaw(frame []byte) error {
	_, err := s.dev.Write(frame)
	return err
}

// Sender adapts a device into the transmit hook an adapter drives.
func Sender(dev Device) netdev.RawSender {
	return deviceSender{dev: dev}
}

// Serve pumps inbound frames from dev into the adapter's receive queue
// until ctx is cancelled. The device is closed on cancellation to
// unblock the pending read.
func Serve(ctx context.Context, dev Device, a *netdev.Adapter) error {
	go func() {
		<-ctx.Done()
		_ = dev.Close()
	}()

	buf := make([]byte, a.MTU()+ethernet.HeaderSize)
	for {
		n, err := dev.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if n == 0 {
			continue
		}
		a.DidReceive(buf[:n])
	}
}
