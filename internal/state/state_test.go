package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	confString := `
hardware {
  dev_port = "/dev/port"
  normal { indicator = 58 panel = 59 motor = 57 keyboard = 60 }
  lcd { codepage = "windows-1251" width = 16 }
}
ui {
  service { password = "4321" gate_sec = 5 }
}
inventory {
  item "Cheetos" { code = 3 price = 150 stock = 1 }
  item "Pocky" { code = 22 price = 175 stock = 4 }
}
`
	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{"test-inline": confString})
	cfg, err := ReadConfig(log, fs, "test-inline")
	require.NoError(t, err)

	assert.Equal(t, 58, cfg.Hardware.Normal.Indicator)
	assert.Equal(t, "windows-1251", cfg.Hardware.LCD.Codepage)
	assert.Equal(t, "4321", cfg.UI.Service.Password)
	assert.Equal(t, 5, cfg.UI.Service.GateSec)
	require.Equal(t, 2, len(cfg.Inventory.Items))
	assert.Equal(t, "Cheetos", cfg.Inventory.Items[0].Name)
	assert.Equal(t, 22, cfg.Inventory.Items[1].Code)
}

func TestReadConfigInclude(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{
		"main":  `include "extra" {} ui { service { password = "7777" } }`,
		"extra": `ui { front { idle_sec = 4 } }`,
	})
	cfg, err := ReadConfig(log, fs, "main")
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.UI.Service.Password)
	assert.Equal(t, 4, cfg.UI.Front.IdleSec)
}

func TestReadConfigMissingRequired(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{})
	_, err := ReadConfig(log, fs, "nonexistent")
	assert.Error(t, err)
}

func TestInitDefaults(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")

	assert.Equal(t, hardware.PortSet{Indicator: 0x3A, Panel: 0x3B, Motor: 0x39, Keyboard: 0x3C}, g.Hardware.Normal)
	assert.Equal(t, hardware.PortSet{Indicator: 0x1A, Panel: 0x1B, Motor: 0x19, Keyboard: 0x1C}, g.Hardware.Service)
	assert.Equal(t, 9, g.Config.UI.Front.IdleSec)
	assert.Equal(t, 8, g.Config.UI.Service.GateSec)
	assert.Equal(t, "1234", g.Config.UI.Service.Password)
	assert.Equal(t, 4, g.Inventory.Len())
	assert.Equal(t, hardware.ModeNormal, g.Hardware.Mode())

	// boot clock is fake and driven by Sleep
	before := g.Now()
	g.Sleep(100)
	assert.Equal(t, before+100, g.Now())
}
