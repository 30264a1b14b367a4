package guest

// KeyboardFrame holds one byte per keyboard half-row, in the order of
// Ports.Keyboard. A cleared bit in the low 5 bits is a pressed key.
type KeyboardFrame [8]byte

// keyboardNoise covers the ULA bits that do not belong to the matrix
// (EAR input and two floating lines).
const keyboardNoise = 0xe0

type KeyboardSampler struct {
	bus       Bus
	selectors [8]uint16
}

func NewKeyboardSampler(bus Bus, selectors [8]uint16) *KeyboardSampler {
	return &KeyboardSampler{bus: bus, selectors: selectors}
}

// Sample reads all eight half-rows and forces the non-matrix bits high.
func (k *KeyboardSampler) Sample() (f KeyboardFrame) {
	for i, sel := range k.selectors {
		f[i] = k.bus.In(sel) | keyboardNoise
	}
	return f
}
