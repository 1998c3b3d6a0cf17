package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalhq/marker/config"
)

func TestPartitionRecords(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		wantLens []int
	}{
		{name: "even split", total: 10, size: 5, wantLens: []int{5, 5}},
		{name: "short tail", total: 7, size: 5, wantLens: []int{5, 2}},
		{name: "single short batch", total: 3, size: 5, wantLens: []int{3}},
		{name: "size one", total: 3, size: 1, wantLens: []int{1, 1, 1}},
		{name: "empty input", total: 0, size: 5, wantLens: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := makeRecords(tc.total)
			batches := PartitionRecords(records, tc.size)

			require.Len(t, batches, len(tc.wantLens))
			var flat []Record
			for i, b := range batches {
				assert.Len(t, b, tc.wantLens[i])
				flat = append(flat, b...)
			}
			// Partitioning preserves order and loses nothing.
			if tc.total > 0 {
				assert.Equal(t, records, flat)
			}
		})
	}
}

func TestPartitionRecordsNonPositiveSize(t *testing.T) {
	records := makeRecords(12)
	for _, size := range []int{0, -3} {
		batches := PartitionRecords(records, size)
		require.NotEmpty(t, batches)
		assert.Len(t, batches[0], config.DefaultBatchSize, "size %d falls back to the default", size)
	}
}
