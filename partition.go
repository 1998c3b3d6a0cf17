package marker

import "github.com/evalhq/marker/config"

// PartitionRecords splits records into ordered, contiguous groups of at
// most size members; the final group may be shorter. Concatenating the
// groups in order reproduces the input exactly. A non-positive size falls
// back to the configured default.
func PartitionRecords(records []Record, size int) []Batch {
	if size <= 0 {
		size = config.DefaultBatchSize
	}

	batches := make([]Batch, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, Batch(records[start:end]))
	}
	return batches
}
