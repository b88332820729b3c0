package sim

// Runner defaults.
const (
	DefaultTickRate  = 60   // Ticks per second
	DefaultHistory   = 600  // Rewindable ticks (10 s at 60 Hz)
	DefaultPushForce = 2.0  // Impulse magnitude applied by a push command
	commandBuffer    = 64   // Pending commands before Send starts dropping
	maxTickRate      = 1000 // Upper bound for WithTickRate
)
