package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/internal/state"
	"github.com/temoto/snackbox/internal/ui"
	"github.com/temoto/snackbox/log2"
)

var log = log2.NewStderr(log2.LDebug)

var BuildVersion string = "unknown" // set by ldflags -X

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "snackbox.hcl", "")
	flagVersion := cmdline.Bool("version", false, "print build version and exit")
	cmdline.Parse(os.Args[1:])

	if *flagVersion {
		fmt.Printf("snackbox %s\n", BuildVersion)
		return
	}

	if sdnotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	} else {
		log.SetFlags(log2.LStdFlags)
	}

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	log.Infof("snackbox %s starting", BuildVersion)

	cfg := state.MustReadConfig(log, state.NewOsFullReader(""), *flagConfig)
	g.MustInit(ctx, cfg)

	bus, err := iodev.NewDevPort(cfg.Hardware.DevPort)
	if err != nil {
		log.Fatal(errors.ErrorStack(errors.Annotatef(err, "open %s", cfg.Hardware.DevPort)))
	}
	defer bus.Close()
	if err := g.InitHardware(bus); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	if err := g.RunInput(); err != nil {
		// bench input sources are optional, the matrix keypad still works
		g.Error(err)
	}

	sigShutdownChan := make(chan os.Signal, 1)
	signal.Notify(sigShutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigShutdownChan
		log.Infof("shutdown requested")
		g.Stop()
	}()

	u := &ui.UI{}
	if err := u.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	sdnotify(daemon.SdNotifyReady)
	log.Debugf("init complete, running")
	u.Loop(ctx)
	g.StopWait()
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
