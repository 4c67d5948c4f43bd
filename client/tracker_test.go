package client

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zkchannel-org/zkchannel/types"
	"github.com/zkchannel-org/zkchannel/wire"
)

type mockTransport struct {
	currentSlot func(ctx context.Context) (types.Slot, error)
	submit      func(ctx context.Context, ix types.Instruction) (types.Signature, error)
	readAccount func(ctx context.Context, addr types.Address) ([]byte, error)
}

func (m *mockTransport) CurrentSlot(ctx context.Context) (types.Slot, error) {
	if m.currentSlot == nil {
		return 1, nil
	}
	return m.currentSlot(ctx)
}

func (m *mockTransport) SubmitInstruction(ctx context.Context, ix types.Instruction) (types.Signature, error) {
	if m.submit == nil {
		return "sig", nil
	}
	return m.submit(ctx, ix)
}

func (m *mockTransport) ReadAccount(ctx context.Context, addr types.Address) ([]byte, error) {
	if m.readAccount == nil {
		return nil, ErrAccountNotFound
	}
	return m.readAccount(ctx, addr)
}

func testAddr(t *testing.T, fill byte) types.Address {
	t.Helper()
	addr, err := types.AddressFromBytes(bytes.Repeat([]byte{fill}, types.AddressLength))
	require.NoError(t, err)
	return addr
}

func testSubmission(t *testing.T) *Submission {
	t.Helper()
	return &Submission{
		ExecutionID:      "calc_exec_1",
		Requester:        testAddr(t, 0x0A),
		ExecutionAddress: testAddr(t, 0xEE),
		ExpirationSlot:   1000,
		Signature:        "sig",
		Status:           StatusPending,
	}
}

func encodeState(t *testing.T, status wire.ExecutionStatus, payload []byte) []byte {
	t.Helper()
	buf, err := (&wire.ExecutionStateV1{Status: status, Payload: payload}).Encode()
	require.NoError(t, err)
	return buf
}

func fastTracker(transport Transport, timeout time.Duration) *Tracker {
	return NewTracker(transport, 5*time.Millisecond, timeout, nil)
}

func receiveResult(t *testing.T, results <-chan TrackResult) TrackResult {
	t.Helper()
	select {
	case res, ok := <-results:
		require.True(t, ok, "channel closed without a result")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no tracking result")
		return TrackResult{}
	}
}

func requireClosed(t *testing.T, results <-chan TrackResult) {
	t.Helper()
	select {
	case _, ok := <-results:
		require.False(t, ok, "expected closed channel, got another result")
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestTrackerCompletes(t *testing.T) {
	var polls atomic.Int32
	output := []byte("375")
	transport := &mockTransport{
		readAccount: func(_ context.Context, _ types.Address) ([]byte, error) {
			// not picked up, then pending, then completed
			switch polls.Add(1) {
			case 1:
				return nil, ErrAccountNotFound
			case 2:
				return encodeState(t, wire.ExecutionPending, nil), nil
			default:
				return encodeState(t, wire.ExecutionCompleted, output), nil
			}
		},
	}

	results := fastTracker(transport, time.Minute).Track(context.Background(), testSubmission(t))
	res := receiveResult(t, results)
	require.Equal(t, StatusCompleted, res.Status)
	require.Equal(t, output, res.Output)
	require.NoError(t, res.Err)
	require.GreaterOrEqual(t, polls.Load(), int32(3))

	// exactly one terminal notification
	requireClosed(t, results)
}

func TestTrackerRemoteFailure(t *testing.T) {
	transport := &mockTransport{
		readAccount: func(_ context.Context, _ types.Address) ([]byte, error) {
			return encodeState(t, wire.ExecutionFailed, []byte("division by zero")), nil
		},
	}

	res := receiveResult(t, fastTracker(transport, time.Minute).Track(context.Background(), testSubmission(t)))
	require.Equal(t, StatusFailed, res.Status)
	var remoteErr *RemoteError
	require.ErrorAs(t, res.Err, &remoteErr)
	require.Equal(t, "division by zero", remoteErr.Message)
}

func TestTrackerExpires(t *testing.T) {
	transport := &mockTransport{
		currentSlot: func(_ context.Context) (types.Slot, error) { return 1001, nil },
	}

	res := receiveResult(t, fastTracker(transport, time.Minute).Track(context.Background(), testSubmission(t)))
	require.Equal(t, StatusExpired, res.Status)
	require.ErrorIs(t, res.Err, ErrExpired)
	require.NotErrorIs(t, res.Err, ErrTrackTimeout)
}

func TestTrackerTimeout(t *testing.T) {
	// poll interval far longer than the timeout: the wall-clock bound
	// must fire on its own, and it is not the expiration condition
	tracker := NewTracker(&mockTransport{}, time.Hour, 50*time.Millisecond, nil)

	res := receiveResult(t, tracker.Track(context.Background(), testSubmission(t)))
	require.Equal(t, StatusPending, res.Status)
	require.ErrorIs(t, res.Err, ErrTrackTimeout)
	require.NotErrorIs(t, res.Err, ErrExpired)
}

func TestTrackerCancellation(t *testing.T) {
	var polls atomic.Int32
	transport := &mockTransport{
		readAccount: func(_ context.Context, _ types.Address) ([]byte, error) {
			polls.Add(1)
			return encodeState(t, wire.ExecutionPending, nil), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	results := fastTracker(transport, time.Minute).Track(ctx, testSubmission(t))

	require.Eventually(t, func() bool { return polls.Load() >= 2 }, 5*time.Second, time.Millisecond)
	cancel()

	// a cancelled tracker never emits a notification
	requireClosed(t, results)

	// polling stops
	stopped := polls.Load()
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, polls.Load(), stopped+1)
}

func TestTrackerToleratesTransientErrors(t *testing.T) {
	var slotCalls, readCalls atomic.Int32
	transport := &mockTransport{
		currentSlot: func(_ context.Context) (types.Slot, error) {
			if slotCalls.Add(1) == 1 {
				return 0, errors.New("node briefly down")
			}
			return 1, nil
		},
		readAccount: func(_ context.Context, _ types.Address) ([]byte, error) {
			if readCalls.Add(1) == 1 {
				return nil, errors.New("connection reset")
			}
			return encodeState(t, wire.ExecutionCompleted, []byte("ok")), nil
		},
	}

	res := receiveResult(t, fastTracker(transport, time.Minute).Track(context.Background(), testSubmission(t)))
	require.Equal(t, StatusCompleted, res.Status)
}

func TestTrackerMalformedState(t *testing.T) {
	transport := &mockTransport{
		readAccount: func(_ context.Context, _ types.Address) ([]byte, error) {
			return []byte{0xFF, 0xFF}, nil
		},
	}

	res := receiveResult(t, fastTracker(transport, time.Minute).Track(context.Background(), testSubmission(t)))
	require.Equal(t, StatusFailed, res.Status)
	require.ErrorContains(t, res.Err, "decoding execution state")
}

func TestTrackerConcurrentSubmissions(t *testing.T) {
	transport := &mockTransport{
		readAccount: func(_ context.Context, addr types.Address) ([]byte, error) {
			// result payload derived from the polled address, each
			// tracked request sees its own state
			return encodeState(t, wire.ExecutionCompleted, []byte{addr[0]}), nil
		},
	}
	tracker := fastTracker(transport, time.Minute)

	channels := make(map[byte]<-chan TrackResult)
	for _, fill := range []byte{1, 2, 3, 4} {
		sub := testSubmission(t)
		sub.ExecutionAddress = testAddr(t, fill)
		channels[fill] = tracker.Track(context.Background(), sub)
	}
	for fill, results := range channels {
		res := receiveResult(t, results)
		require.Equal(t, StatusCompleted, res.Status)
		require.Equal(t, []byte{fill}, res.Output)
	}
}

func TestTrackStatusStrings(t *testing.T) {
	require.Equal(t, "submitted", StatusSubmitted.String())
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "completed", StatusCompleted.String())
	require.Equal(t, "failed", StatusFailed.String())
	require.Equal(t, "expired", StatusExpired.String())

	require.False(t, StatusPending.Terminal())
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusFailed.Terminal())
	require.True(t, StatusExpired.Terminal())
}
