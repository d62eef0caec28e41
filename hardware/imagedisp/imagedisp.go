// Package imagedisp renders full-screen images through an external viewer.
//
// Each Show spawns a new viewer process; a rolling ring of live pids keeps
// the previous frame on screen until the next one has mapped its window, so
// the desktop never flashes through. Slots are reclaimed graceful-then-forced.
package imagedisp

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/snackbox/log2"
)

const DefaultKeep = 8

type Config struct {
	Program  string // default "pqiv"
	Keep     int    // ring size
	Settle   time.Duration
	Fallback string // substituted when the asset file is missing
}

type Renderer struct {
	alive *alive.Alive
	log   *log2.Log
	sleep func(time.Duration)
	cfg   Config

	mu    sync.Mutex
	ring  []*os.Process
	pos   int
	count int
}

func New(cfg Config, log *log2.Log, sleep func(time.Duration)) *Renderer {
	if cfg.Program == "" {
		cfg.Program = "pqiv"
	}
	if cfg.Keep <= 0 {
		cfg.Keep = DefaultKeep
	}
	if cfg.Settle == 0 {
		cfg.Settle = 25 * time.Millisecond
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Renderer{
		alive: alive.NewAlive(),
		log:   log,
		sleep: sleep,
		cfg:   cfg,
		ring:  make([]*os.Process, cfg.Keep),
	}
}

// Show renders path best-effort: a missing file substitutes the fallback
// asset, spawn failure is logged, callers are never blocked on errors.
func (self *Renderer) Show(path string) {
	if !self.alive.IsRunning() {
		return
	}
	if path == "" {
		path = self.cfg.Fallback
	}
	if _, err := os.Stat(path); err != nil && self.cfg.Fallback != "" {
		path = self.cfg.Fallback
	}

	self.mu.Lock()
	if self.count >= self.cfg.Keep {
		self.killSoftHard(self.ring[self.pos])
		self.ring[self.pos] = nil
	}

	cmd := exec.Command(self.cfg.Program, "-f", path)
	cmd.Env = envForX()
	if err := cmd.Start(); err != nil {
		self.mu.Unlock()
		self.log.Errorf("imagedisp spawn program=%s path=%s err=%v", self.cfg.Program, path, err)
		return
	}
	// leave no zombie behind when the slot is reclaimed later
	go func() { _ = cmd.Wait() }()

	self.ring[self.pos] = cmd.Process
	self.pos = (self.pos + 1) % self.cfg.Keep
	if self.count < self.cfg.Keep {
		self.count++
	}
	self.mu.Unlock()

	self.sleep(self.cfg.Settle)
}

// Stop terminates every outstanding viewer.
func (self *Renderer) Stop() {
	self.alive.Stop()
	self.mu.Lock()
	defer self.mu.Unlock()
	for i, p := range self.ring {
		self.killSoftHard(p)
		self.ring[i] = nil
	}
	self.pos = 0
	self.count = 0
}

func (self *Renderer) killSoftHard(p *os.Process) {
	if p == nil {
		return
	}
	_ = p.Signal(syscall.SIGTERM)
	self.sleep(60 * time.Millisecond)
	_ = p.Kill()
}

// envForX fills DISPLAY/XAUTHORITY for viewers spawned from a bare console.
func envForX() []string {
	env := os.Environ()
	if os.Getenv("DISPLAY") == "" {
		disp := ":0"
		if _, err := os.Stat("/tmp/.X11-unix/X1"); err == nil {
			disp = ":1"
		}
		env = append(env, "DISPLAY="+disp)
	}
	if os.Getenv("XAUTHORITY") == "" {
		if home := os.Getenv("HOME"); home != "" {
			env = append(env, "XAUTHORITY="+home+"/.Xauthority")
		}
	}
	env = append(env, "NO_AT_BRIDGE=1")
	return env
}
