package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/helpers"
	"github.com/temoto/snackbox/internal/inventory"
	"github.com/temoto/snackbox/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		DevPort string      `hcl:"dev_port"`
		Normal  PortsConfig `hcl:"normal"`
		Service PortsConfig `hcl:"service"`

		LCD struct {
			Codepage string `hcl:"codepage"`
			Width    int    `hcl:"width"`
		} `hcl:"lcd"`

		Input struct {
			DevInputEvent struct {
				Enable bool   `hcl:"enable"`
				Device string `hcl:"device"`
			} `hcl:"dev_input_event"`
		} `hcl:"input"`

		Renderer struct {
			Enable   bool   `hcl:"enable"`
			Program  string `hcl:"program"`
			Keep     int    `hcl:"keep"`
			SettleMs int    `hcl:"settle_ms"`
			Fallback string `hcl:"fallback"`
		} `hcl:"renderer"`
	} `hcl:"hardware"`

	Dispense struct {
		UnitSec      int `hcl:"unit_sec"`
		StepsPerUnit int `hcl:"steps_per_unit"`
		UnitGapMs    int `hcl:"unit_gap_ms"`
		TestSteps    int `hcl:"test_steps"`
		TestPhaseUs  int `hcl:"test_phase_us"`
		TestGapMs    int `hcl:"test_gap_ms"`
	} `hcl:"dispense"`

	Inventory struct {
		Items []inventory.Config `hcl:"item"`
	} `hcl:"inventory"`

	UI struct {
		Front struct {
			IdleSec      int    `hcl:"idle_sec"`
			MsgMenu1     string `hcl:"msg_menu1"`
			MsgMenu2     string `hcl:"msg_menu2"`
			MaxDispense  int    `hcl:"max_dispense"`
			PayKeyRepeat int    `hcl:"pay_key_repeat"`
		} `hcl:"front"`

		Service struct {
			Password    string `hcl:"password"`
			GateSec     int    `hcl:"gate_sec"`
			HeartbeatMs int    `hcl:"heartbeat_ms"`
		} `hcl:"service"`

		Anim struct {
			DoorFrames        []string `hcl:"door_frames"`
			DoorCadenceMs     int      `hcl:"door_cadence_ms"`
			DispenseFrames    []string `hcl:"dispense_frames"`
			DispenseCadenceMs int      `hcl:"dispense_cadence_ms"`
		} `hcl:"anim"`

		Feedback struct {
			ErrShortMs int `hcl:"err_short_ms"`
			ErrLongMs  int `hcl:"err_long_ms"`
			DoneMs     int `hcl:"done_ms"`
			SuccessMs  int `hcl:"success_ms"`
			OosMs      int `hcl:"oos_ms"`
		} `hcl:"feedback"`

		Img struct {
			Menu    string `hcl:"menu"`
			Success string `hcl:"success"`
			Service string `hcl:"service"`
			SvcMenu string `hcl:"svc_menu"`
			Restock string `hcl:"restock"`
			Sound   string `hcl:"sound"`
			Motor   string `hcl:"motor"`
		} `hcl:"img"`
	} `hcl:"ui"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// PortsConfig mirrors hardware.PortSet with int fields for HCL decoding.
type PortsConfig struct {
	Indicator int `hcl:"indicator"`
	Panel     int `hcl:"panel"`
	Motor     int `hcl:"motor"`
	Keyboard  int `hcl:"keyboard"`
}

func (pc PortsConfig) PortSet() hardware.PortSet {
	return hardware.PortSet{
		Indicator: uint16(pc.Indicator),
		Panel:     uint16(pc.Panel),
		Motor:     uint16(pc.Motor),
		Keyboard:  uint16(pc.Keyboard),
	}
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
