// Package zx implements the host side of the zxprobe test protocol: the
// peripherals of a 48K Spectrum as seen from the I/O bus (keyboard matrix,
// Kempston joystick and mouse, the debug port), a screen canvas, and a
// Runner that drives a guest program in lockstep with the host.
package zx

import (
	"log"
	"sync"
	"time"
)

// DebugPortAddr is the address of the host/guest channel.
const DebugPortAddr = 0xcccc

// floatingBus is returned for reads of ports no device answers.
const floatingBus = 0xff

type Config struct {
	Kempston    bool // Kempston joystick interface
	Mouse       bool // Kempston mouse interface
	SyncTimeout time.Duration
	Trace       bool // keep a backlog of port accesses
}

// DefaultSyncTimeout is how long Runner waits for the guest to respond.
const DefaultSyncTimeout = 3 * time.Second

func DefaultConfig() Config {
	return Config{SyncTimeout: DefaultSyncTimeout}
}

// Machine is the I/O side of a Spectrum. It implements guest.Bus and
// guest.Idler, and is safe for use by one guest goroutine and any number
// of host goroutines.
type Machine struct {
	cfg Config

	mu     sync.Mutex
	kbd    Keyboard
	joy    KempstonJoy
	mouse  KempstonMouse
	dbg    DebugPort
	ear    bool
	border byte
	trace  backlog

	scr *Screen

	parked chan int // guest -> host: releases consumed so far
	halt   chan bool
	halted sync.Once
}

func NewMachine(cfg Config) *Machine {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = DefaultSyncTimeout
	}
	m := &Machine{
		cfg:    cfg,
		kbd:    newKeyboard(),
		mouse:  newKempstonMouse(),
		dbg:    newDebugPort(),
		scr:    NewScreen(),
		parked: make(chan int),
		halt:   make(chan bool),
	}
	return m
}

func (m *Machine) Config() Config  { return m.cfg }
func (m *Machine) Screen() *Screen { return m.scr }

func (m *Machine) In(port uint16) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.in(port)
	if m.cfg.Trace {
		m.trace.LazyPrintf("in  %.4x %.2x", port, v)
	}
	return v
}

func (m *Machine) in(port uint16) byte {
	switch {
	case port == DebugPortAddr:
		return m.dbg.In()
	case port&0x0001 == 0:
		v := m.kbd.Read(byte(port >> 8))
		if !m.ear {
			v ^= 0x40
		}
		return v
	case m.cfg.Mouse && port&0x0121 == 0x0001:
		return m.mouse.status
	case m.cfg.Mouse && port&0x0521 == 0x0101:
		return m.mouse.x
	case m.cfg.Mouse && port&0x0521 == 0x0501:
		return m.mouse.y
	case m.cfg.Kempston && port&0x00e0 == 0:
		return m.joy.Read()
	default:
		return floatingBus
	}
}

func (m *Machine) Out(port uint16, v byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.Trace {
		m.trace.LazyPrintf("out %.4x %.2x", port, v)
	}
	switch {
	case port == DebugPortAddr:
		m.dbg.Out(v)
	case port&0x0001 == 0:
		m.border = v & 0x07
	}
}

type haltSignal struct{}

// Idle parks the guest until the host queues debug port input or halts
// the machine. While parked the guest offers the host the number of
// releases it has consumed, which is how Runner learns that the guest has
// finished responding to a release.
func (m *Machine) Idle() {
	m.mu.Lock()
	n := m.dbg.consumed
	m.mu.Unlock()
	select {
	case m.parked <- n:
	case <-m.dbg.ready:
	case <-m.halt:
		panic(haltSignal{})
	}
}

// Halt makes a parked guest unwind. It is safe to call more than once.
func (m *Machine) Halt() {
	m.halted.Do(func() { close(m.halt) })
}

// Host side.

func (m *Machine) SendKey(k Key, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kbd.Send(k, pressed)
}

func (m *Machine) SendCompoundKey(k CompoundKey, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kbd.SendCompound(k, pressed)
}

func (m *Machine) SendJoy(k JoyKey, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joy.Send(k, pressed)
}

func (m *Machine) MoveMouse(dx, dy int8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouse.MoveBy(dx, dy)
}

func (m *Machine) SendMouseButton(b MouseButton, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouse.Button(b, pressed)
}

func (m *Machine) ScrollMouse(dir WheelDirection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouse.Scroll(dir)
}

// SetEar sets the level of the EAR input, which the ULA reports in bit 6
// of every keyboard read.
func (m *Machine) SetEar(high bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ear = high
}

func (m *Machine) Border() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.border
}

// PutByte queues b for the guest to read from the debug port.
func (m *Machine) PutByte(b byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbg.Put(b)
}

// TakeText removes and returns everything the guest has written to the
// debug port.
func (m *Machine) TakeText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.dbg.Take())
}

func (m *Machine) takeByte() (byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dbg.TakeByte()
}

func (m *Machine) debugState() (consumed int, pending bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dbg.consumed, len(m.dbg.in) > 0 || len(m.dbg.out) > 0
}

// State is a snapshot of the host-visible device registers.
type State struct {
	Keyboard    [8]byte
	Joystick    byte
	MouseX      byte
	MouseY      byte
	MouseStatus byte
	Ear         bool
	Border      byte
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := State{
		Joystick:    m.joy.Read(),
		MouseX:      m.mouse.x,
		MouseY:      m.mouse.y,
		MouseStatus: m.mouse.status,
		Ear:         m.ear,
		Border:      m.border,
	}
	for i := range s.Keyboard {
		s.Keyboard[i] = m.kbd.Row(i)
	}
	return s
}

// EmitTrace logs the recent port accesses, oldest first.
func (m *Machine) EmitTrace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trace.Emit()
}

func (m *Machine) resetTrace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trace.Reset()
}

type backlog struct {
	entries []logEntry
	n       int
}

type logEntry struct {
	format string
	args   []any
}

const maxBacklog = 100

func (b *backlog) LazyPrintf(format string, args ...any) {
	if b.n < len(b.entries) {
		b.entries[b.n] = logEntry{format, args}
	} else {
		b.entries = append(b.entries, logEntry{format, args})
	}
	b.n = (b.n + 1) % maxBacklog
}

func (b *backlog) Emit() {
	if len(b.entries) == 0 {
		return
	}
	for i := b.n; ; i++ {
		i %= len(b.entries)
		log.Printf(b.entries[i].format, b.entries[i].args...)
		if (i+1)%maxBacklog == b.n {
			break
		}
	}
}

func (b *backlog) Reset() {
	b.entries = b.entries[:0]
	b.n = 0
}
