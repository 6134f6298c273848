package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"raffleScope/internal/indexer"
	"raffleScope/internal/model"
)

type pagedEvents struct {
	pages [][]model.RawEvent
	calls int
}

func (p *pagedEvents) RaffleEvents(ctx context.Context, address string, filter indexer.EventFilter, limit, offset int) ([]model.RawEvent, error) {
	page := offset / limit
	p.calls++
	if page >= len(p.pages) {
		return nil, nil
	}
	return p.pages[page], nil
}

type memorySink struct {
	activities []model.Activity
}

func (m *memorySink) PutActivityBatch(activities []model.Activity) error {
	m.activities = append(m.activities, activities...)
	return nil
}

type memoryErrorSink struct {
	errs []model.ParseError
}

func (m *memoryErrorSink) PutParseErrors(errs []model.ParseError) error {
	m.errs = append(m.errs, errs...)
	return nil
}

type memoryState struct {
	version uint64
	runID   string
	saved   bool
}

func (m *memoryState) Load(ctx context.Context) (uint64, bool, error) {
	return m.version, m.saved, nil
}

func (m *memoryState) Save(ctx context.Context, version uint64, runID string) error {
	m.version = version
	m.runID = runID
	m.saved = true
	return nil
}

func buyEvent(version string, buyer string) model.RawEvent {
	data := fmt.Sprintf(`{"buyer":%q,"raffle_id":"1","ticket_count":"1","total_paid":"100000000"}`, buyer)
	return model.RawEvent{
		Type:               "0xc::raffle::BuyTicketEvent",
		Data:               json.RawMessage(data),
		TransactionVersion: version,
	}
}

func TestRunnerSinglePass(t *testing.T) {
	events := &pagedEvents{pages: [][]model.RawEvent{{
		buyEvent("12", "0xa"),
		buyEvent("11", "0xb"),
	}}}
	sink := &memorySink{}
	state := &memoryState{}

	runner := NewRunner(RunConfig{ContractAddress: "0xc", PageSize: 10}, events, nil, sink, nil, nil, state, nil)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sink.activities, 2)
	require.Equal(t, uint64(12), state.version)
	require.NotEmpty(t, state.runID)
}

func TestRunnerStopsAtCheckpoint(t *testing.T) {
	events := &pagedEvents{pages: [][]model.RawEvent{{
		buyEvent("12", "0xa"),
		buyEvent("11", "0xb"),
		buyEvent("10", "0xc"),
	}}}
	sink := &memorySink{}
	state := &memoryState{version: 11, saved: true}

	runner := NewRunner(RunConfig{ContractAddress: "0xc", PageSize: 10}, events, nil, sink, nil, nil, state, nil)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sink.activities, 1)
	require.Equal(t, "0xa", sink.activities[0].Buyer)
	require.Equal(t, uint64(12), state.version)
}

func TestRunnerRecordsParseErrors(t *testing.T) {
	bad := model.RawEvent{
		Type:               "0xc::raffle::BuyTicketEvent",
		Data:               json.RawMessage(`"{broken"`),
		TransactionVersion: "13",
	}
	events := &pagedEvents{pages: [][]model.RawEvent{{bad, buyEvent("12", "0xa")}}}
	sink := &memorySink{}
	errSink := &memoryErrorSink{}

	runner := NewRunner(RunConfig{ContractAddress: "0xc", PageSize: 10}, events, nil, sink, nil, errSink, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sink.activities, 1)
	require.Len(t, errSink.errs, 1)
	require.Equal(t, "13", errSink.errs[0].TransactionVersion)
}

func TestRunnerDeduplicates(t *testing.T) {
	events := &pagedEvents{pages: [][]model.RawEvent{{
		buyEvent("12", "0xa"),
		buyEvent("12", "0xa"),
	}}}
	sink := &memorySink{}

	runner := NewRunner(RunConfig{ContractAddress: "0xc", PageSize: 10}, events, nil, sink, nil, nil, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sink.activities, 1)
}

func TestRunnerPagesUntilShortPage(t *testing.T) {
	events := &pagedEvents{pages: [][]model.RawEvent{
		{buyEvent("14", "0xa"), buyEvent("13", "0xb")},
		{buyEvent("12", "0xc")},
	}}
	sink := &memorySink{}

	runner := NewRunner(RunConfig{ContractAddress: "0xc", PageSize: 2}, events, nil, sink, nil, nil, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sink.activities, 3)
	require.Equal(t, 2, events.calls)
}

func TestRunnerValidation(t *testing.T) {
	runner := NewRunner(RunConfig{}, &pagedEvents{}, nil, &memorySink{}, nil, nil, nil, nil)
	require.Error(t, runner.Run(context.Background()))
}

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/state.json"
	store := &FileStateStore{Path: path}

	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(context.Background(), 42, "run-1"))

	version, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), version)
}
