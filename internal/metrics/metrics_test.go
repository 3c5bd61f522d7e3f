package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues("token_exchange", OutcomeSuccess))
	ObserveUpstream("token_exchange", OutcomeSuccess, time.Now().Add(-time.Second))
	require.Equal(t, before+1, testutil.ToFloat64(upstreamRequests.WithLabelValues("token_exchange", OutcomeSuccess)))
}

func TestRecordDroppedItem(t *testing.T) {
	before := testutil.ToFloat64(droppedItems.WithLabelValues("exercise"))
	RecordDroppedItem("exercise")
	RecordDroppedItem("exercise")
	require.Equal(t, before+2, testutil.ToFloat64(droppedItems.WithLabelValues("exercise")))
}

func TestStoreGauges(t *testing.T) {
	SetActiveSessions(3)
	SetStoredCredentials(7)
	require.Equal(t, float64(3), testutil.ToFloat64(activeSessions))
	require.Equal(t, float64(7), testutil.ToFloat64(storedCredentials))
}
