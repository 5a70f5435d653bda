package domain

// LoadLabel is a coarse categorical label derived from the connection count.
type LoadLabel string

const (
	LoadIdle     LoadLabel = "IDLE"
	LoadLow      LoadLabel = "LOW"
	LoadMedium   LoadLabel = "MEDIUM"
	LoadHigh     LoadLabel = "HIGH"
	LoadOverload LoadLabel = "OVERLOAD"
)

// PresentationState is the color/animation/label triple subscribers render.
type PresentationState struct {
	Color     string    `json:"color"`
	Animation string    `json:"animation"`
	LoadLabel LoadLabel `json:"loadLabel"`
}

// Snapshot pairs a connection count with the state derived from it.
type Snapshot struct {
	Count int               `json:"connections"`
	State PresentationState `json:"state"`
}

type threshold struct {
	maxCount int
	state    PresentationState
}

// Ordered by maxCount; the first band whose maxCount >= count wins.
var thresholds = []threshold{
	{0, PresentationState{Color: "#ef4444", Animation: "shake", LoadLabel: LoadIdle}},
	{2, PresentationState{Color: "#10b981", Animation: "pulse", LoadLabel: LoadLow}},
	{5, PresentationState{Color: "#3b82f6", Animation: "bounce", LoadLabel: LoadMedium}},
	{10, PresentationState{Color: "#8b5cf6", Animation: "spin", LoadLabel: LoadHigh}},
}

var overloadState = PresentationState{Color: "#f59e0b", Animation: "wiggle", LoadLabel: LoadOverload}

// PresentationFor maps a connection count to its presentation state.
// Negative counts are treated as zero.
func PresentationFor(count int) PresentationState {
	for _, t := range thresholds {
		if count <= t.maxCount {
			return t.state
		}
	}
	return overloadState
}

// SnapshotFor builds the snapshot for a given count.
func SnapshotFor(count int) Snapshot {
	return Snapshot{Count: count, State: PresentationFor(count)}
}
