package contracts

// Actuator is one physical or simulated output line driven by the sequencer.
//
// The sequencer is a pure producer of commands: it never reads actuator state back,
// so implementations report write failures through their own logging.
type Actuator interface {
	Advance() // Assert the output (solenoid energised, pin high, MIDI note on).
	Reset()   // Deassert the output.
}

// Clock paces the sequencer's tick loop.
//
// Implementations track an absolute target deadline: every Wait moves the target forward by
// the requested duration and blocks until the target is reached, so N calls of duration d take
// N*d in aggregate no matter how late any single call returns.
type Clock interface {
	Wait(micros uint64) error // Advance the target by micros and block until it is reached.
	Reset() error             // Set the target to the current time.
}
