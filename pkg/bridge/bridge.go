// Package bridge forwards classical CAN 2.0 traffic between an SLCAN
// adapter and a native SocketCAN interface, using github.com/brutella/can
// for the SocketCAN side.
package bridge

import (
	"context"
	"fmt"
	"sync"

	sockcan "github.com/brutella/can"
	log "github.com/sirupsen/logrus"

	goslcan "github.com/slcanio/goslcan"
)

// SocketCAN identifier bits, per the Linux CAN ABI (struct can_frame's
// can_id): the top two bits mark extended-frame-format and remote
// frames, the low 29/11 bits carry the arbitration ID.
const (
	effFlag = 0x80000000
	rtrFlag = 0x40000000
	effMask = 0x1FFFFFFF
	sffMask = 0x000007FF
)

// Bridge relays frames between an slcan.Bus and a SocketCAN interface.
// CAN-FD frames are not forwarded: brutella/can speaks classical CAN 2.0
// only, so FD frames received from the adapter are logged and dropped.
// New does not reject a Bus configured with FD timing.
type Bridge struct {
	slcan    *goslcan.Bus
	socket   *sockcan.Bus
	logger   *log.Entry
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	closeMux sync.Mutex
	closed   bool
}

// New attaches a Bridge between slcanBus and a SocketCAN interface named
// socketcanIface (e.g. "can0"). It does not start forwarding until Run
// is called.
func New(slcanBus *goslcan.Bus, socketcanIface string) (*Bridge, error) {
	socket, err := sockcan.NewBusForInterfaceWithName(socketcanIface)
	if err != nil {
		return nil, fmt.Errorf("opening socketcan interface %q: %w", socketcanIface, err)
	}
	return &Bridge{
		slcan:  slcanBus,
		socket: socket,
		logger: log.WithField("component", "bridge"),
	}, nil
}

// Run starts forwarding in both directions and blocks until ctx is
// canceled or Close is called.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	b.socket.Subscribe(handlerFunc(func(frame sockcan.Frame) {
		msg := fromSocketCAN(frame)
		if err := b.slcan.Send(msg, nil); err != nil {
			b.logger.WithError(err).Warn("dropping frame from socketcan")
		}
	}))

	b.wg.Add(2)
	go func() {
		defer b.wg.Done()
		if err := b.socket.ConnectAndPublish(); err != nil {
			b.logger.WithError(err).Warn("socketcan connection ended")
		}
	}()
	go func() {
		defer b.wg.Done()
		b.pumpSLCAN(ctx)
	}()

	<-ctx.Done()
	return ctx.Err()
}

func (b *Bridge) pumpSLCAN(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		msg, _, err := b.slcan.Recv(nil)
		if err != nil {
			b.logger.WithError(err).Warn("slcan receive failed, stopping bridge")
			b.cancel()
			return
		}
		if msg == nil {
			continue
		}
		if msg.IsFD {
			b.logger.Debug("dropping FD frame: socketcan side is classical CAN only")
			continue
		}
		if err := b.socket.Publish(toSocketCAN(*msg)); err != nil {
			b.logger.WithError(err).Warn("dropping frame toward socketcan")
		}
	}
}

// Close stops forwarding and releases the SocketCAN socket. Safe to call
// more than once.
func (b *Bridge) Close() error {
	b.closeMux.Lock()
	defer b.closeMux.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	// Disconnect first: the publish goroutine only returns once its
	// socket read fails.
	err := b.socket.Disconnect()
	b.wg.Wait()
	return err
}

type handlerFunc func(sockcan.Frame)

func (h handlerFunc) Handle(frame sockcan.Frame) { h(frame) }

func toSocketCAN(msg goslcan.Message) sockcan.Frame {
	id := msg.ArbitrationID
	if msg.IsExtendedID {
		id = (id & effMask) | effFlag
	} else {
		id = id & sffMask
	}
	if msg.IsRemoteFrame {
		id |= rtrFlag
	}
	frame := sockcan.Frame{ID: id, Length: msg.DLC}
	copy(frame.Data[:], msg.Data)
	return frame
}

func fromSocketCAN(frame sockcan.Frame) goslcan.Message {
	msg := goslcan.Message{
		ArbitrationID: frame.ID & effMask,
		IsExtendedID:  frame.ID&effFlag != 0,
		IsRemoteFrame: frame.ID&rtrFlag != 0,
		DLC:           frame.Length,
		Data:          append([]byte(nil), frame.Data[:frame.Length]...),
	}
	if !msg.IsExtendedID {
		msg.ArbitrationID &= sffMask
	}
	return msg
}
