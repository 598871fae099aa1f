package motor

// Direction is the phase-sequence direction of rotation. The sign of
// rotation lives here, never in a negative shaft speed.
type Direction int

const (
	Forward Direction = 1
	Reverse Direction = -1
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// OperatingState is the drive's coarse operating mode.
type OperatingState int

const (
	Stopped OperatingState = iota
	Accelerating
	Running
	Decelerating
	Faulted
)

func (s OperatingState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Accelerating:
		return "accelerating"
	case Running:
		return "running"
	case Decelerating:
		return "decelerating"
	case Faulted:
		return "fault"
	default:
		return "unknown"
	}
}

// Fault enumerates the VFD trip causes. A non-none fault is terminal
// until an explicit Reset.
type Fault int

const (
	FaultNone Fault = iota
	FaultOvercurrent
	FaultOvertemperature
	FaultPhaseLoss
	FaultOvervoltage
	FaultUndervoltage
	FaultGround
	FaultOverload
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultOvercurrent:
		return "overcurrent"
	case FaultOvertemperature:
		return "overtemperature"
	case FaultPhaseLoss:
		return "phase loss"
	case FaultOvervoltage:
		return "overvoltage"
	case FaultUndervoltage:
		return "undervoltage"
	case FaultGround:
		return "ground fault"
	case FaultOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// PhaseSnapshot is one electrical phase of the VFD output.
type PhaseSnapshot struct {
	Voltage float64 // V, line-to-neutral
	Current float64 // A
	Angle   float64 // rad, relative to phase A
	Power   float64 // W
}

// Electrical is the aggregate three-phase snapshot.
type Electrical struct {
	PhaseA PhaseSnapshot
	PhaseB PhaseSnapshot
	PhaseC PhaseSnapshot

	RealPower     float64 // W
	ReactivePower float64 // var
	ApparentPower float64 // VA
	PowerFactor   float64
}

// State is the full mutable condition of one drive, advanced in place
// by Step. Consumers receive copies and must treat them as read-only.
type State struct {
	TargetFrequency float64 // Hz, commanded by the VFD ramp
	OutputFrequency float64 // Hz, actual inverter output
	AccelTime       float64 // s, 0 -> MaxFrequency
	DecelTime       float64 // s, MaxFrequency -> 0

	TargetDirection        Direction
	CurrentDirection       Direction
	DirectionChangePending bool

	ShaftSpeed      float64 // rad/s, always >= 0
	Slip            float64
	OutputTorque    float64 // Nm, electromagnetic torque
	LoadTorque      float64 // Nm, commanded by the orchestrator
	MechanicalPower float64 // W
	ElectricalPower float64 // W

	Electrical Electrical

	Temperature float64 // °C, winding estimate
	Runtime     float64 // s under power

	Operating OperatingState
	Fault     Fault
}
