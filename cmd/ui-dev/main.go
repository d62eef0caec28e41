// Bench simulator: the full control loop over a fake port bus, with keypad
// input typed at a REPL instead of the matrix scan.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/c-bata/go-prompt"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/helpers/cli"
	"github.com/temoto/snackbox/internal/inventory"
	"github.com/temoto/snackbox/internal/state"
	"github.com/temoto/snackbox/internal/types"
	"github.com/temoto/snackbox/internal/ui"
	"github.com/temoto/snackbox/log2"
)

var log = log2.NewStderr(log2.LDebug)

type consolePanel struct{}

func (consolePanel) Print2(l1, l2 string) {
	fmt.Printf("lcd  |%-16.16s|\n     |%-16.16s|\n", l1, l2)
}

// consoleSeg is silent; the indicator blinks twice a second in service mode
// and would drown the REPL. Inspect it with the `seg` command.
type consoleSeg struct{ last int32 }

func (s *consoleSeg) ShowDigit(d int) { atomic.StoreInt32(&s.last, int32(d)) }
func (s *consoleSeg) Blank()          { atomic.StoreInt32(&s.last, -1) }
func (s *consoleSeg) String() string {
	if v := atomic.LoadInt32(&s.last); v >= 0 {
		return fmt.Sprintf("[%d]", v)
	}
	return "[ ]"
}

type consoleCue struct{}

func (consoleCue) Keypress()            {}
func (consoleCue) Error()               { fmt.Println("cue  error") }
func (consoleCue) Success()             { fmt.Println("cue  success") }
func (consoleCue) PaymentOK()           { fmt.Println("cue  payment-ok") }
func (consoleCue) DispensingSlot(s int) { fmt.Printf("cue  dispensing slot=%d\n", s) }

type consoleRender struct{}

func (consoleRender) Show(path string) { fmt.Printf("img  %s\n", path) }

type replInput struct{ ch chan types.Key }

func (ri *replInput) Poll() types.InputEvent {
	select {
	case k := <-ri.ch:
		return types.InputEvent{Source: "repl", Key: k}
	default:
		return types.InputEvent{}
	}
}
func (ri *replInput) WaitRelease() {}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "snackbox.hcl", "")
	cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log)
	var cfg *state.Config
	if _, err := os.Stat(*flagConfig); err == nil {
		cfg = state.MustReadConfig(log, state.NewOsFullReader(""), *flagConfig)
	} else {
		log.Infof("config %s not found, using defaults", *flagConfig)
		cfg = state.MustReadConfig(log, state.NewMockFullReader(map[string]string{"builtin": ""}), "builtin")
	}
	g.MustInit(ctx, cfg)

	if err := g.InitHardware(iodev.NewMock()); err != nil {
		log.Fatal(err)
	}
	seg := &consoleSeg{last: -1}
	in := &replInput{ch: make(chan types.Key, 16)}
	g.Hardware.Panel = consolePanel{}
	g.Hardware.Seg = seg
	g.Hardware.Beep = consoleCue{}
	g.Hardware.Render = consoleRender{}
	g.Hardware.Input = in

	u := &ui.UI{}
	if err := u.Init(ctx); err != nil {
		log.Fatal(err)
	}
	go u.Loop(ctx)

	exec := func(line string) {
		line = strings.TrimSpace(line)
		switch line {
		case "":
			return
		case "quit", "exit":
			g.Stop()
			os.Exit(0)
		case "state":
			fmt.Printf("state=%s mode=%s\n", u.State.String(), g.Hardware.Mode().String())
			return
		case "seg":
			fmt.Println("7seg", seg.String())
			return
		case "stock":
			g.Inventory.Iter(func(item *inventory.Item) { fmt.Println(item.String()) })
			return
		}
		for _, r := range line {
			k := types.Key(r)
			if k.IsDigit() || k == types.KeyBack || k == types.KeyEnter {
				in.ch <- k
			} else {
				log.Errorf("unknown key %q, want 0-9 A B", r)
			}
		}
	}
	complete := func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix([]prompt.Suggest{
			{Text: "state", Description: "show machine state and mode"},
			{Text: "seg", Description: "show numeric indicator"},
			{Text: "stock", Description: "show inventory"},
			{Text: "quit"},
		}, d.GetWordBeforeCursor(), true)
	}

	fmt.Println("type key sequences like 3B1B00, A=back B=enter; commands: state seg stock quit")
	cli.MainLoop("snackbox-ui-dev", exec, complete)
}
