package catalog

// State is the population state of a registry.
type State int32

const (
	// StateUnpopulated means the registry has not been populated since it
	// was created or last reset.
	StateUnpopulated State = iota

	// StatePopulating means a goroutine is running the populator.
	StatePopulating

	// StatePopulated means the registry contents are committed.
	StatePopulated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnpopulated:
		return "unpopulated"
	case StatePopulating:
		return "populating"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}
