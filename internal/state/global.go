package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/hardware/beeper"
	"github.com/temoto/snackbox/hardware/imagedisp"
	"github.com/temoto/snackbox/hardware/input"
	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/hardware/keyboard"
	"github.com/temoto/snackbox/hardware/motor"
	"github.com/temoto/snackbox/hardware/sevenseg"
	"github.com/temoto/snackbox/hardware/text_display"
	"github.com/temoto/snackbox/helpers"
	"github.com/temoto/snackbox/internal/inventory"
	"github.com/temoto/snackbox/log2"
)

type Global struct {
	Alive        *alive.Alive
	Boot         *atomic_clock.Clock
	BuildVersion string
	Config       *Config
	Hardware     *hardware.Hardware
	Inventory    *inventory.Inventory
	Log          *log2.Log

	// Sleep and Clock are process-wide time hooks; tests override them to
	// run the whole control loop without waiting.
	Sleep func(time.Duration)
	Clock func() time.Duration

	fanin  *input.Fanin
	render *imagedisp.Renderer

	initInputOnce sync.Once
	stopOnce      sync.Once
}

const ContextKey = "run/state-global"

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error state.NewContext() log=nil")
	}

	g := &Global{
		Alive:     alive.NewAlive(),
		Boot:      atomic_clock.Now(),
		Inventory: &inventory.Inventory{},
		Log:       log,
		Sleep:     time.Sleep,
	}
	g.Clock = func() time.Duration { return atomic_clock.Since(g.Boot) }
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)
	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// Now is milliseconds-resolution time since process boot; all timer and
// animation deadlines are expressed against it.
func (g *Global) Now() time.Duration { return g.Clock() }

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	g.normalizeConfig()

	errs := make([]error, 0)
	if err := g.Inventory.Init(g.Log, g.Config.Inventory.Items); err != nil {
		errs = append(errs, err)
	}
	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

// InitHardware builds the driver bundle over bus. Production opens /dev/port;
// tests and the bench simulator pass a mock bus.
func (g *Global) InitHardware(bus iodev.Bus) error {
	c := &g.Config.Hardware

	normal := c.Normal.PortSet()
	h := &hardware.Hardware{
		Bus:       bus,
		Log:       g.Log,
		Normal:    normal,
		Service:   c.Service.PortSet(),
		AddrSeg:   iodev.NewAddr(normal.Indicator),
		AddrPanel: iodev.NewAddr(normal.Panel),
		AddrMotor: iodev.NewAddr(normal.Motor),
		AddrKbd:   iodev.NewAddr(normal.Keyboard),
	}

	panel, err := text_display.New(bus, h.AddrPanel, text_display.Config{
		Codepage: c.LCD.Codepage,
		Width:    uint32(c.LCD.Width),
	}, g.Log, g.Sleep)
	if err != nil {
		return errors.Annotate(err, "init text_display")
	}
	h.Panel = panel
	h.Seg = sevenseg.New(bus, h.AddrSeg, g.Log)
	h.Motor = motor.New(bus, h.AddrMotor, g.Log)
	h.Beep = beeper.New(bus, g.Log, g.Sleep)

	kb := keyboard.New(bus, h.AddrKbd, g.Log, g.Sleep)
	g.fanin = input.NewFanin(g.Log, kb)
	h.Input = g.fanin

	if c.Renderer.Enable {
		g.render = imagedisp.New(imagedisp.Config{
			Program:  c.Renderer.Program,
			Keep:     c.Renderer.Keep,
			Settle:   helpers.IntMillisecondDefault(c.Renderer.SettleMs, 25*time.Millisecond),
			Fallback: c.Renderer.Fallback,
		}, g.Log, g.Sleep)
		h.Render = g.render
	} else {
		h.Render = hardware.NopRenderer{}
	}

	h.SetMode(hardware.ModeNormal)
	g.Hardware = h
	return nil
}

// RunInput starts side input sources (evdev bench keyboards). Separate from
// InitHardware so tests can poll the fanin without goroutines.
func (g *Global) RunInput() error {
	var err error
	g.initInputOnce.Do(func() {
		sources := make([]input.Source, 0, 1)
		if d := &g.Config.Hardware.Input.DevInputEvent; d.Enable {
			var src *input.DevInputEventSource
			if src, err = input.NewDevInputEventSource(d.Device); err != nil {
				err = errors.Annotatef(err, "input dev_input_event device=%s", d.Device)
				return
			}
			sources = append(sources, src)
		}
		g.fanin.Run(sources)
	})
	return err
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}

func (g *Global) Stop() {
	g.stopOnce.Do(func() {
		g.Alive.Stop()
		if g.fanin != nil {
			g.fanin.Stop()
		}
		if g.render != nil {
			g.render.Stop()
		}
	})
}

func (g *Global) StopWait() {
	g.Stop()
	g.Alive.Wait()
}

func (g *Global) normalizeConfig() {
	c := g.Config

	if c.Hardware.DevPort == "" {
		c.Hardware.DevPort = "/dev/port"
	}
	zero := PortsConfig{}
	if c.Hardware.Normal == zero {
		c.Hardware.Normal = PortsConfig{Indicator: 0x3A, Panel: 0x3B, Motor: 0x39, Keyboard: 0x3C}
	}
	if c.Hardware.Service == zero {
		c.Hardware.Service = PortsConfig{Indicator: 0x1A, Panel: 0x1B, Motor: 0x19, Keyboard: 0x1C}
	}
	if c.Hardware.LCD.Width == 0 {
		c.Hardware.LCD.Width = 16
	}

	if c.UI.Front.IdleSec == 0 {
		c.UI.Front.IdleSec = 9
	}
	if c.UI.Front.MaxDispense == 0 {
		c.UI.Front.MaxDispense = 15
	}
	if c.UI.Front.PayKeyRepeat == 0 {
		c.UI.Front.PayKeyRepeat = 2
	}
	if c.UI.Front.MsgMenu1 == "" {
		c.UI.Front.MsgMenu1 = "Enter Index:"
	}
	if c.UI.Front.MsgMenu2 == "" {
		c.UI.Front.MsgMenu2 = "B to enter"
	}
	if c.UI.Service.Password == "" {
		c.UI.Service.Password = "1234"
		g.Log.Errorf("config: ui.service.password is not set, using default")
	}
	if c.UI.Service.GateSec == 0 {
		c.UI.Service.GateSec = 8
	}
	if c.UI.Service.HeartbeatMs == 0 {
		c.UI.Service.HeartbeatMs = 500
	}

	if len(c.UI.Anim.DoorFrames) == 0 {
		c.UI.Anim.DoorFrames = []string{"/tmp/door_1.jpg", "/tmp/door_2.jpg", "/tmp/door_3.jpg", "/tmp/door_4.jpg"}
	}
	if c.UI.Anim.DoorCadenceMs == 0 {
		c.UI.Anim.DoorCadenceMs = 800
	}
	if len(c.UI.Anim.DispenseFrames) == 0 {
		c.UI.Anim.DispenseFrames = []string{"/tmp/disp_1.jpg", "/tmp/disp_2.jpg", "/tmp/disp_3.jpg", "/tmp/disp_4.jpg"}
	}
	if c.UI.Anim.DispenseCadenceMs == 0 {
		c.UI.Anim.DispenseCadenceMs = 800
	}

	if c.UI.Feedback.ErrShortMs == 0 {
		c.UI.Feedback.ErrShortMs = 700
	}
	if c.UI.Feedback.ErrLongMs == 0 {
		c.UI.Feedback.ErrLongMs = 1200
	}
	if c.UI.Feedback.DoneMs == 0 {
		c.UI.Feedback.DoneMs = 1200
	}
	if c.UI.Feedback.SuccessMs == 0 {
		c.UI.Feedback.SuccessMs = 5000
	}
	if c.UI.Feedback.OosMs == 0 {
		c.UI.Feedback.OosMs = 4500
	}

	img := &c.UI.Img
	if img.Menu == "" {
		img.Menu = "/tmp/menu.jpg"
	}
	if img.Success == "" {
		img.Success = "/tmp/success.jpg"
	}
	if img.Service == "" {
		img.Service = "/tmp/service.jpg"
	}
	if img.SvcMenu == "" {
		img.SvcMenu = "/tmp/menu_service.jpg"
	}
	if img.Restock == "" {
		img.Restock = "/tmp/restock.jpg"
	}
	if img.Sound == "" {
		img.Sound = "/tmp/sound.jpg"
	}
	if img.Motor == "" {
		img.Motor = "/tmp/motor.jpg"
	}
	if c.Hardware.Renderer.Fallback == "" {
		c.Hardware.Renderer.Fallback = img.Menu
	}

	if len(c.Inventory.Items) == 0 {
		g.Log.Errorf("config: inventory is empty, using builtin catalog")
		c.Inventory.Items = []inventory.Config{
			{Name: "Cheetos", Code: 3, Price: 150, Stock: 1, Img: "/tmp/cheetos.jpg", ImgOOS: "/tmp/cheetos_oos.jpg"},
			{Name: "Lays", Code: 8, Price: 150, Stock: 2, Img: "/tmp/lays.jpg", ImgOOS: "/tmp/lays_oos.jpg"},
			{Name: "Doritos", Code: 11, Price: 150, Stock: 3, Img: "/tmp/doritos.jpg", ImgOOS: "/tmp/doritos_oos.jpg"},
			{Name: "Pocky", Code: 22, Price: 175, Stock: 4, Img: "/tmp/pocky.jpg", ImgOOS: "/tmp/pocky_oos.jpg"},
		}
	}
}
