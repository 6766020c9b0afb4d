package indexer

import "fmt"

// VersionRange represents an inclusive transaction version range.
type VersionRange struct {
	From uint64
	To   uint64
}

// SplitRange splits a version range into batches of size batchSize.
func SplitRange(from, to, batchSize uint64) ([]VersionRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to version must be >= from version")
	}

	ranges := make([]VersionRange, 0)
	start := from
	for start <= to {
		remaining := to - start + 1
		var end uint64
		if remaining <= batchSize {
			end = to
		} else {
			end = start + batchSize - 1
		}
		ranges = append(ranges, VersionRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return ranges, nil
}
