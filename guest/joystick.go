package guest

// JoystickSampler reads the Kempston joystick register. The value is
// passed through untouched; by convention bits 0-4 are right, left, down,
// up and fire.
type JoystickSampler struct {
	bus  Bus
	port uint16
}

func NewJoystickSampler(bus Bus, port uint16) *JoystickSampler {
	return &JoystickSampler{bus: bus, port: port}
}

func (j *JoystickSampler) Sample() byte { return j.bus.In(j.port) }
