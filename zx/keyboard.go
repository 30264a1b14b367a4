package zx

import (
	"fmt"
	"strings"
)

// Key is one of the 40 keys of the Spectrum keyboard matrix. Keys are
// numbered by half-row, five to a row, in bit order.
type Key int

const (
	// Half-row 0xfefe
	KeyShift Key = iota
	KeyZ
	KeyX
	KeyC
	KeyV
	// 0xfdfe
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	// 0xfbfe
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	// 0xf7fe
	Key1
	Key2
	Key3
	Key4
	Key5
	// 0xeffe
	Key0
	Key9
	Key8
	Key7
	Key6
	// 0xdffe
	KeyP
	KeyO
	KeyI
	KeyU
	KeyY
	// 0xbffe
	KeyEnter
	KeyL
	KeyK
	KeyJ
	KeyH
	// 0x7ffe
	KeySpace
	KeySymShift
	KeyM
	KeyN
	KeyB

	NumKeys = int(iota)
)

var keyNames = [NumKeys]string{
	"shift", "z", "x", "c", "v",
	"a", "s", "d", "f", "g",
	"q", "w", "e", "r", "t",
	"1", "2", "3", "4", "5",
	"0", "9", "8", "7", "6",
	"p", "o", "i", "u", "y",
	"enter", "l", "k", "j", "h",
	"space", "symshift", "m", "n", "b",
}

// Row returns the index of the key's half-row.
func (k Key) Row() int { return int(k) / 5 }

// Mask returns the key's bit within its half-row.
func (k Key) Mask() byte { return 1 << uint(int(k)%5) }

func (k Key) String() string {
	if k < 0 || int(k) >= NumKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

func ParseKey(s string) (Key, error) {
	s = strings.ToLower(s)
	for i, n := range keyNames {
		if n == s {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// CompoundKey is a key of later Spectrum keyboards that is wired as a
// combination of a modifier and a matrix key.
type CompoundKey int

const (
	ArrowLeft CompoundKey = iota
	ArrowDown
	ArrowUp
	ArrowRight
	Delete
	CapsLock
	Break
	Edit
	Graph
	TrueVideo
	InvVideo

	NumCompoundKeys = int(iota)
)

var compoundKeys = [NumCompoundKeys]struct {
	name    string
	primary Key
}{
	ArrowLeft:  {"left", Key5},
	ArrowDown:  {"down", Key6},
	ArrowUp:    {"up", Key7},
	ArrowRight: {"right", Key8},
	Delete:     {"delete", Key0},
	CapsLock:   {"capslock", Key2},
	Break:      {"break", KeySpace},
	Edit:       {"edit", Key1},
	Graph:      {"graph", Key9},
	TrueVideo:  {"truevideo", Key3},
	InvVideo:   {"invvideo", Key4},
}

func (k CompoundKey) Primary() Key { return compoundKeys[k].primary }

// Modifier returns the matrix key held together with the primary key.
// All compound keys use caps shift.
func (k CompoundKey) Modifier() Key { return KeyShift }

func (k CompoundKey) String() string {
	if k < 0 || int(k) >= NumCompoundKeys {
		return fmt.Sprintf("CompoundKey(%d)", int(k))
	}
	return compoundKeys[k].name
}

func ParseCompoundKey(s string) (CompoundKey, error) {
	s = strings.ToLower(s)
	for i, c := range compoundKeys {
		if c.name == s {
			return CompoundKey(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compound key %q", s)
}

// Keyboard is the Spectrum keyboard matrix. A cleared bit is a pressed
// key. Compound keys are tracked separately so that releasing one does
// not release a matrix key that is also held on its own.
type Keyboard struct {
	rows     [8]byte
	extended [8]byte
	shiftRef uint32 // compound keys currently holding caps shift
}

func newKeyboard() Keyboard {
	var k Keyboard
	for i := range k.rows {
		k.rows[i] = 0xff
		k.extended[i] = 0xff
	}
	return k
}

func (kb *Keyboard) Send(k Key, pressed bool) {
	if pressed {
		kb.rows[k.Row()] &^= k.Mask()
	} else {
		kb.rows[k.Row()] |= k.Mask()
	}
}

func (kb *Keyboard) SendCompound(k CompoundKey, pressed bool) {
	var (
		primary  = k.Primary()
		modifier = k.Modifier()
		bit      = uint32(1) << uint(k)
	)
	if pressed {
		kb.shiftRef |= bit
		kb.extended[primary.Row()] &^= primary.Mask()
		kb.extended[modifier.Row()] &^= modifier.Mask()
		return
	}
	kb.shiftRef &^= bit
	if kb.shiftRef == 0 {
		kb.extended[modifier.Row()] |= modifier.Mask()
	}
	kb.extended[primary.Row()] |= primary.Mask()
}

// Row returns the combined state of half-row i.
func (kb *Keyboard) Row(i int) byte { return kb.rows[i] & kb.extended[i] }

// Read returns the matrix as seen by a ULA read with the given selector:
// every half-row whose selector bit is clear is ANDed in.
func (kb *Keyboard) Read(sel byte) byte {
	v := byte(0xff)
	for i := 0; i < 8; i++ {
		if sel>>uint(i)&1 == 0 {
			v &= kb.Row(i)
		}
	}
	return v
}
