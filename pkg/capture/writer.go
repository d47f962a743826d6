// Package capture writes adapter traffic to pcap files.
package capture

import (
	"fmt"
	"os"
	"sync"
	"time"

	"netdev-go/pkg/netdev"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const DefaultSnaplen = 65536

// Writer appends Ethernet frames to a pcap file. Safe for concurrent
// use by the transmit and receive paths.
type Writer struct {
	mu      sync.Mutex
	f       *os.File
	w       *pcapgo.Writer
	snaplen uint32
}

func NewWriter(path string, snaplen uint32) (*Writer, error) {
	if snaplen == 0 {
		snaplen = DefaultSnaplen
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(snaplen, layers.LinkTypeEthernet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write capture header: %w", err)
	}
	return &Writer{f: f, w: w, snaplen: snaplen}, nil
}

func (w *Writer) WriteFrame(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if uint32(ci.CaptureLength) > w.snaplen {
		ci.CaptureLength = int(w.snaplen)
		frame = frame[:w.snaplen]
	}
	return w.w.WritePacket(ci, frame)
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// TapSender mirrors every transmitted frame into the capture file
// before handing it to the real driver. Capture faults never block
// transmission.
type TapSender struct {
	next netdev.RawSender
	w    *Writer
}

func NewTapSender(next netdev.RawSender, w *Writer) *TapSender {
	return &TapSender{next: next, w: w}
}

func (t *TapSender) SendRaw(frame []byte) error {
	_ = t.w.WriteFrame(frame)
	return t.next.SendRaw(frame)
}
