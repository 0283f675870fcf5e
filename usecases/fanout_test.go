package usecases

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut(t *testing.T) {
	t.Run("no tasks", func(t *testing.T) {
		results := FanOut[int](nil)
		assert.Empty(t, results)
		assert.NoError(t, JoinFailures(results))
	})

	t.Run("keeps task order and runs every task", func(t *testing.T) {
		var calls atomic.Int32
		errBoom := errors.New("boom")

		tasks := make([]func() (int, error), 0, 6)
		for i := range 6 {
			tasks = append(tasks, func() (int, error) {
				calls.Add(1)
				if i == 1 || i == 4 {
					return 0, errBoom
				}
				return i * 10, nil
			})
		}

		results := FanOut(tasks)

		require.Len(t, results, 6)
		assert.Equal(t, int32(6), calls.Load())
		assert.Equal(t, 0, results[0].MustGet())
		assert.True(t, results[1].IsError())
		assert.Equal(t, 30, results[3].MustGet())
		assert.True(t, results[4].IsError())

		err := JoinFailures(results)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
	})

	t.Run("a panicking task becomes an error and the others still run", func(t *testing.T) {
		var calls atomic.Int32
		tasks := []func() (string, error){
			func() (string, error) {
				calls.Add(1)
				return "a", nil
			},
			func() (string, error) {
				calls.Add(1)
				panic("nil map write")
			},
			func() (string, error) {
				calls.Add(1)
				return "c", nil
			},
		}

		results := FanOut(tasks)

		require.Len(t, results, 3)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, "a", results[0].MustGet())
		require.True(t, results[1].IsError())
		assert.Contains(t, results[1].Error().Error(), "nil map write")
		assert.Equal(t, "c", results[2].MustGet())
		assert.Error(t, JoinFailures(results))
	})
}
