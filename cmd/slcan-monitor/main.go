package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	goslcan "github.com/slcanio/goslcan"
	_ "github.com/slcanio/goslcan/pkg/transport/loopback"
	_ "github.com/slcanio/goslcan/pkg/transport/serialport"
)

func main() {
	log.SetLevel(log.InfoLevel)

	channel := flag.String("channel", "", "adapter channel, e.g. tty:///dev/ttyUSB0@115200")
	bitrate := flag.Int("bitrate", 500000, "preset bitrate in bit/s")
	listenOnly := flag.Bool("listen-only", true, "open the adapter listen-only")
	flag.Parse()

	if *channel == "" {
		fmt.Println("usage: slcan-monitor -channel <channel> [-bitrate N] [-listen-only=false]")
		os.Exit(1)
	}

	opts := goslcan.DefaultOptions()
	opts.Bitrate = *bitrate
	opts.ListenOnly = *listenOnly

	bus, err := goslcan.Open(*channel, opts)
	if err != nil {
		fmt.Printf("could not open adapter %v : %v\n", *channel, err)
		os.Exit(1)
	}
	defer bus.Shutdown()

	if hw, sw, ok, err := bus.GetVersion(nil); err == nil && ok {
		log.Infof("adapter hardware version %d software version %d", hw, sw)
	}
	if serial, ok, err := bus.GetSerialNumber(nil); err == nil && ok {
		log.Infof("adapter serial number %s", serial)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-interrupt
		close(done)
	}()

	timeout := 100 * time.Millisecond
	for {
		select {
		case <-done:
			return
		default:
		}
		msg, _, err := bus.Recv(&timeout)
		if err != nil {
			fmt.Printf("receive error : %v\n", err)
			os.Exit(1)
		}
		if msg == nil {
			continue
		}
		log.Infof("id=%#x ext=%v rtr=%v fd=%v dlc=%d data=% x",
			msg.ArbitrationID, msg.IsExtendedID, msg.IsRemoteFrame, msg.IsFD, msg.DLC, msg.Data)
	}
}
