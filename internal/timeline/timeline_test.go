package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeOrdersBySeq(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Kind: KindCreated, Seq: 0, Timestamp: base},
		{Kind: KindStatus, Seq: 1, Timestamp: base.Add(time.Minute), Status: "approved"},
		{Kind: KindStatus, Seq: 3, Timestamp: base.Add(3 * time.Minute), Status: "in-progress"},
		{Kind: KindAssignment, Seq: 2, Timestamp: base.Add(2 * time.Minute)},
	}
	merged := merge(events)

	seqs := make([]int64, len(merged))
	for i, e := range merged {
		seqs[i] = e.Seq
	}
	assert.Equal(t, []int64{0, 1, 2, 3}, seqs)
}

func TestMergeSeqWinsOverTimestamp(t *testing.T) {
	// Wall clocks can disagree with write order; the per-request seq is the
	// authority.
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Kind: KindCreated, Seq: 0, Timestamp: base},
		{Kind: KindStatus, Seq: 2, Timestamp: base.Add(time.Minute), Status: "in-progress"},
		{Kind: KindStatus, Seq: 1, Timestamp: base.Add(5 * time.Minute), Status: "approved"},
	}
	merged := merge(events)

	assert.Equal(t, "approved", merged[1].Status)
	assert.Equal(t, "in-progress", merged[2].Status)
}

func TestMergeZeroSeqFallsBackToTimestamp(t *testing.T) {
	// Rows from before seq numbering carry 0 and order by timestamp.
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Kind: KindCreated, Seq: 0, Timestamp: base},
		{Kind: KindStatus, Seq: 0, Timestamp: base.Add(2 * time.Minute), Status: "in-progress"},
		{Kind: KindStatus, Seq: 0, Timestamp: base.Add(time.Minute), Status: "approved"},
	}
	merged := merge(events)

	assert.Equal(t, KindCreated, merged[0].Kind)
	assert.Equal(t, "approved", merged[1].Status)
	assert.Equal(t, "in-progress", merged[2].Status)
}

func TestMergeExactTieUsesStreamPriority(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Kind: KindAssignment, Seq: 0, Timestamp: ts},
		{Kind: KindStatus, Seq: 0, Timestamp: ts, Status: "approved"},
		{Kind: KindCreated, Seq: 0, Timestamp: ts},
	}
	merged := merge(events)

	assert.Equal(t, KindCreated, merged[0].Kind)
	assert.Equal(t, KindStatus, merged[1].Kind)
	assert.Equal(t, KindAssignment, merged[2].Kind)
}

func TestMergeIsStableWithinStream(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Kind: KindStatus, Seq: 0, Timestamp: ts, Status: "approved", Note: "first"},
		{Kind: KindStatus, Seq: 0, Timestamp: ts, Status: "in-progress", Note: "second"},
	}
	merged := merge(events)

	assert.Equal(t, "first", merged[0].Note)
	assert.Equal(t, "second", merged[1].Note)
}

func TestTimelineAll(t *testing.T) {
	tl := &Timeline{Events: []Event{
		{Kind: KindCreated, Seq: 0},
		{Kind: KindStatus, Seq: 1},
	}}

	var kinds []Kind
	for e := range tl.All() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []Kind{KindCreated, KindStatus}, kinds)

	// restartable
	count := 0
	for range tl.All() {
		count++
		break
	}
	for range tl.All() {
		count++
	}
	assert.Equal(t, 3, count)
}
