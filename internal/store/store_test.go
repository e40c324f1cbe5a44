package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(state int, delta int) int { return state + delta }

func TestDispatchAppliesReducer(t *testing.T) {
	s := New(0, add)
	s.Dispatch(2)
	s.Dispatch(3)
	require.Equal(t, 5, s.State())
}

func TestSubscribeReceivesEveryTransition(t *testing.T) {
	s := New(0, add)
	var seen []int
	unsubscribe := s.Subscribe(func(state int, action int) {
		seen = append(seen, state)
	})

	s.Dispatch(1)
	s.Dispatch(10)
	unsubscribe()
	s.Dispatch(100)

	assert.Equal(t, []int{1, 11}, seen)
	assert.Equal(t, 111, s.State())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := New(0, add)
	unsubscribe := s.Subscribe(func(int, int) {})
	unsubscribe()
	unsubscribe()
	assert.Empty(t, s.listeners)
}

func TestNestedDispatchKeepsOrder(t *testing.T) {
	s := New(0, add)
	var actions []int
	s.Subscribe(func(state int, action int) {
		actions = append(actions, action)
		if action == 1 {
			s.Dispatch(2)
			s.Dispatch(3)
		}
	})
	s.Subscribe(func(state int, action int) {
		actions = append(actions, action*10)
	})

	s.Dispatch(1)

	assert.Equal(t, []int{1, 10, 2, 20, 3, 30}, actions)
	assert.Equal(t, 6, s.State())
}

func TestConcurrentDispatch(t *testing.T) {
	s := New(0, add)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.State())
}

func TestDispatchIsVisibleWhileAnotherCallerNotifies(t *testing.T) {
	s := New(0, add)
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []int
	s.Subscribe(func(state int, action int) {
		if action == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		seen = append(seen, state)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Dispatch(1)
	}()
	<-entered

	s.Dispatch(10)
	assert.Equal(t, 11, s.State())

	close(release)
	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 11}, seen)
}

func TestListenerPanicDoesNotWedgeStore(t *testing.T) {
	s := New(0, add)
	var seen []int
	s.Subscribe(func(state int, action int) {
		if action == 1 {
			panic("listener failed")
		}
		seen = append(seen, state)
	})

	require.Panics(t, func() { s.Dispatch(1) })

	s.Dispatch(5)
	assert.Equal(t, 6, s.State())
	assert.Equal(t, []int{6}, seen)
}

func TestReducerPanicDoesNotWedgeStore(t *testing.T) {
	s := New(0, func(state int, delta int) int {
		if delta < 0 {
			panic("negative delta")
		}
		return state + delta
	})

	require.Panics(t, func() { s.Dispatch(-1) })

	s.Dispatch(2)
	assert.Equal(t, 2, s.State())
}
