package snapshot

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestWriterSaveLoadRestore(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()
	cat := catalog.Default()
	machine := wizard.NewMachine(wizard.DefaultOptions())
	w := NewWriter(NewMemoryStore(), testLogger(), nil, WriterOptions{})
	defer w.Close()

	pkg, ok := cat.Lookup("Premium Vegetarian")
	require.True(t, ok)
	s := machine.Open(pkg)
	s = machine.ToggleChoice(s, "Samosa", 1)
	s = machine.Advance(machine.ToggleChoice(s, "Aloo Tikki", 1))
	s = machine.ToggleChoice(s, "Malai Kofta", 2)
	s = machine.SetPartySize(s, 40)
	s = machine.SetAddOn(s, true)
	require.Equal(t, 2, s.CurrentStep)

	w.Save(ctx, "c1", FromSession(s, w.now()))
	// Clear on another scope flushes the queue ahead of the read.
	require.NoError(t, w.Clear(ctx, "other"))

	rec, ok := w.Load(ctx, "c1")
	require.True(t, ok)
	restored, ok := rec.Restore(cat, machine)
	require.True(t, ok)

	require.Equal(t, "Premium Vegetarian", restored.Package.Name)
	require.Equal(t, 2, restored.CurrentStep)
	require.Equal(t, []string{"Samosa", "Aloo Tikki"}, restored.SelectionsAt(1))
	require.Equal(t, []string{"Malai Kofta"}, restored.SelectionsAt(2))
	people, ok := restored.PartySize()
	require.True(t, ok)
	require.Equal(t, 40, people)
	require.True(t, restored.IncludeAddOn)
}

func TestWriterClearLeavesNothingToLoad(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()
	cat := catalog.Default()
	machine := wizard.NewMachine(wizard.DefaultOptions())
	w := NewWriter(NewMemoryStore(), testLogger(), nil, WriterOptions{})
	defer w.Close()

	pkg, _ := cat.Lookup("Vegetarian")
	w.Save(ctx, "c1", FromSession(machine.Open(pkg), w.now()))
	require.NoError(t, w.Clear(ctx, "c1"))

	_, ok := w.Load(ctx, "c1")
	require.False(t, ok)
}

func TestRestoreUnknownPackageIsInert(t *testing.T) {
	rec := Record{PackageName: "Discontinued", CurrentStep: 2}
	_, ok := rec.Restore(catalog.Default(), wizard.NewMachine(wizard.DefaultOptions()))
	require.False(t, ok)
}

func TestRestoreClampsCorruptValues(t *testing.T) {
	cat := catalog.Default()
	machine := wizard.NewMachine(wizard.DefaultOptions())
	small := 3
	kg := decimal.RequireFromString("0.1")

	rec := Record{
		PackageName:     "Vegetarian",
		CurrentStep:     9,
		Selections:      map[int][]string{1: {"Mix Veg", "Not A Dish"}, 7: {"Samosa"}},
		PartySize:       &small,
		WeightKg:        &kg,
		CheckoutReached: true,
	}
	s, ok := rec.Restore(cat, machine)
	require.True(t, ok)
	require.Equal(t, s.Package.SummaryIndex(), s.CurrentStep)
	require.True(t, s.CheckoutReached)
	require.Equal(t, []string{"Mix Veg"}, s.SelectionsAt(1))
	require.Empty(t, s.SelectionsAt(7))
	people, _ := s.PartySize()
	require.Equal(t, 15, people)

	weighted := Record{PackageName: "Party Trays by Weight", CurrentStep: 1, WeightKg: &kg, CheckoutReached: true}
	s, ok = weighted.Restore(cat, machine)
	require.True(t, ok)
	got, _ := s.WeightKg()
	require.True(t, got.Equal(decimal.RequireFromString("0.5")))
	require.False(t, s.CheckoutReached)

	repeated := Record{
		PackageName: "Vegetarian",
		CurrentStep: 1,
		Selections:  map[int][]string{1: {"Mix Veg", "Aloo Gobhi", "Mix Veg"}},
	}
	s, ok = repeated.Restore(cat, machine)
	require.True(t, ok)
	require.Equal(t, []string{"Mix Veg", "Aloo Gobhi"}, s.SelectionsAt(1))
}

func TestWriterLoadDiscardsUndecodable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, KeyFor("c1"), []byte("{not json")))
	w := NewWriter(store, testLogger(), nil, WriterOptions{})
	defer w.Close()

	_, ok := w.Load(ctx, "c1")
	require.False(t, ok)
}

type blockingStore struct {
	*MemoryStore
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Put(ctx context.Context, key string, value []byte) error {
	<-b.release
	return b.MemoryStore.Put(ctx, key, value)
}

func (b *blockingStore) unblock() { b.once.Do(func() { close(b.release) }) }

func TestWriterSaveNeverBlocksWhenQueueFull(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()
	store := &blockingStore{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
	w := NewWriter(store, testLogger(), nil, WriterOptions{QueueSize: 1})

	pkg, _ := catalog.Default().Lookup("Vegetarian")
	rec := FromSession(wizard.NewMachine(wizard.DefaultOptions()).Open(pkg), w.now())
	for i := 0; i < 10; i++ {
		w.Save(ctx, "c1", rec)
	}

	store.unblock()
	require.NoError(t, w.Close())
}

type failingStore struct{ *MemoryStore }

func (failingStore) Delete(context.Context, string) error { return errors.New("disk gone") }

func TestWriterClearReportsStoreFailure(t *testing.T) {
	w := NewWriter(failingStore{NewMemoryStore()}, testLogger(), nil, WriterOptions{})
	defer w.Close()
	require.Error(t, w.Clear(context.Background(), "c1"))
}

func TestWriterAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	w := NewWriter(NewMemoryStore(), testLogger(), nil, WriterOptions{})
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	w.Save(context.Background(), "c1", Record{PackageName: "Vegetarian"})
	require.ErrorIs(t, w.Clear(context.Background(), "c1"), ErrWriterClosed)
}
