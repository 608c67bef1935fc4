package download

// Connection speed thresholds in megabits per second
const (
	ThresholdSlowMbps   = 25
	ThresholdMediumMbps = 75
	ThresholdFastMbps   = 150
)

// Worker pool sizes per connection class
const (
	WorkersSlow   = 2
	WorkersMedium = 4
	WorkersFast   = 6
	WorkersMax    = 8

	// DefaultWorkers is used when the speed probe fails
	DefaultWorkers = 3
)

// WorkerCount maps a measured connection speed onto a worker pool size:
// below 25 Mbps 2 workers, below 75 Mbps 4, below 150 Mbps 6, otherwise 8.
func WorkerCount(mbps float64) int {
	switch {
	case mbps < ThresholdSlowMbps:
		return WorkersSlow
	case mbps < ThresholdMediumMbps:
		return WorkersMedium
	case mbps < ThresholdFastMbps:
		return WorkersFast
	default:
		return WorkersMax
	}
}
