package lazymap_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/kolkov/lazycell/lazy"
	"github.com/kolkov/lazycell/lazymap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetComputesOncePerKey(t *testing.T) {
	t.Parallel()

	const (
		keys       = 8
		getsPerKey = 16
	)

	var calls [keys]atomic.Int64
	m := lazymap.New(func(k int) (int, error) {
		calls[k].Add(1)
		return k * k, nil
	})

	start := make(chan struct{})
	var g errgroup.Group
	for k := 0; k < keys; k++ {
		k := k
		for i := 0; i < getsPerKey; i++ {
			g.Go(func() error {
				<-start
				v, err := m.Get(k)
				if err != nil {
					return err
				}
				if v != k*k {
					return xerrors.Errorf("Get(%d) = %d, want %d", k, v, k*k)
				}
				return nil
			})
		}
	}
	close(start)
	require.NoError(t, g.Wait())

	for k := 0; k < keys; k++ {
		assert.Equal(t, int64(1), calls[k].Load(), "key %d", k)
	}
	assert.Equal(t, keys, m.Len())
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, m.Keys())
}

func TestSlowKeyDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	m := lazymap.New(func(k string) (string, error) {
		if k == "slow" {
			close(entered)
			<-release
		}
		return k + "!", nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Get("slow")
	}()
	<-entered

	// The slow key is mid-evaluation; an unrelated key must still
	// resolve immediately.
	v, err := m.Get("fast")
	require.NoError(t, err)
	assert.Equal(t, "fast!", v)

	close(release)
	<-done
}

func TestPoisonedKeyStaysPoisoned(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	wantErr := xerrors.New("lookup failed")
	m := lazymap.New(func(string) (int, error) {
		calls.Add(1)
		return 0, wantErr
	})

	_, err := m.Get("k")
	require.ErrorIs(t, err, wantErr)

	for i := 0; i < 5; i++ {
		_, err = m.Get("k")
		require.ErrorIs(t, err, lazy.ErrPoisoned)
		require.ErrorIs(t, err, wantErr)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestForgetAllowsFreshLifecycle(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	m := lazymap.New(func(string) (int, error) {
		n := calls.Add(1)
		if n == 1 {
			return 0, xerrors.New("transient")
		}
		return int(n), nil
	})

	_, err := m.Get("k")
	require.Error(t, err)

	require.True(t, m.Forget("k"))
	require.False(t, m.Forget("k"), "second forget of the same key")

	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestTryGet(t *testing.T) {
	t.Parallel()

	m := lazymap.New(func(k string) (string, error) {
		return k, nil
	})

	_, ok := m.TryGet("missing")
	assert.False(t, ok, "unmaterialized key")

	_, err := m.Get("k")
	require.NoError(t, err)

	v, ok := m.TryGet("k")
	require.True(t, ok)
	assert.Equal(t, "k", v)
}

func TestNewNilCompute(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		lazymap.New[string, int](nil)
	})
}

func TestConcurrentMixedKeys(t *testing.T) {
	t.Parallel()

	const goroutines = 64

	var calls atomic.Int64
	m := lazymap.New(func(k int) (int, error) {
		calls.Add(1)
		return k + 1, nil
	})

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			k := i % 4
			v, err := m.Get(k)
			if err != nil || v != k+1 {
				panic("unexpected result")
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(4), calls.Load())
}
