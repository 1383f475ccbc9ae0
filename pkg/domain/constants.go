package domain

const (
	// DefaultDivergence is the takeoff angle in degrees between a child axis and its parent axis.
	DefaultDivergence = 60.0

	// LumenOvershoot is how far a lumen extends past an open end so the rim is cut clean.
	LumenOvershoot = 1.0

	// MainBranchName is the body name of the root branch.
	MainBranchName = "main"

	// AdapterName is the body name of the adapter.
	AdapterName = "adapter"
)
