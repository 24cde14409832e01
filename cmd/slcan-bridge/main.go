package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	goslcan "github.com/slcanio/goslcan"
	"github.com/slcanio/goslcan/pkg/bridge"
	"github.com/slcanio/goslcan/pkg/config"
	_ "github.com/slcanio/goslcan/pkg/transport/loopback"
	_ "github.com/slcanio/goslcan/pkg/transport/serialport"
)

func main() {
	log.SetLevel(log.InfoLevel)

	configPath := flag.String("c", "", "ini file with adapter profiles")
	profileName := flag.String("profile", "", "profile name within the config file")
	channel := flag.String("channel", "", "adapter channel, overrides the profile's, e.g. tty:///dev/ttyUSB0@115200")
	socketcanIface := flag.String("can", "can0", "socketcan interface to bridge against")
	bitrate := flag.Int("bitrate", 0, "preset bitrate in bit/s, overrides the profile's")
	listenOnly := flag.Bool("listen-only", false, "open the adapter listen-only")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	opts := goslcan.DefaultOptions()
	adapterChannel := *channel

	if *configPath != "" {
		profiles, err := config.Load(*configPath)
		if err != nil {
			fmt.Printf("failed to load config %v : %v\n", *configPath, err)
			os.Exit(1)
		}
		profile, ok := profiles[*profileName]
		if !ok {
			fmt.Printf("no profile named %q in %v\n", *profileName, *configPath)
			os.Exit(1)
		}
		opts = profile.Options
		if adapterChannel == "" {
			adapterChannel = profile.Channel
		}
	}
	if adapterChannel == "" {
		fmt.Println("no channel given: pass -channel or -c/-profile")
		os.Exit(1)
	}
	if *bitrate != 0 {
		opts.Bitrate = *bitrate
	}
	if *listenOnly {
		opts.ListenOnly = true
	}

	bus, err := goslcan.Open(adapterChannel, opts)
	if err != nil {
		fmt.Printf("could not open adapter %v : %v\n", adapterChannel, err)
		os.Exit(1)
	}
	defer bus.Shutdown()

	br, err := bridge.New(bus, *socketcanIface)
	if err != nil {
		fmt.Printf("could not attach to socketcan interface %v : %v\n", *socketcanIface, err)
		os.Exit(1)
	}
	defer br.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("bridging %v <-> %v", adapterChannel, *socketcanIface)
	if err := br.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Printf("bridge stopped with error : %v\n", err)
		os.Exit(1)
	}
}
