package usecases

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/gammazero/workerpool"
	"github.com/samber/mo"
)

// MaxFanOutWorkers bounds the concurrent external calls of a single fan-out
const MaxFanOutWorkers = 4

// FanOut runs every task on a worker pool and waits for all of them to finish.
// Outcomes are returned in task order; one failing task never stops the others.
func FanOut[T any](tasks []func() (T, error)) []mo.Result[T] {
	results := make([]mo.Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	wp := workerpool.New(min(len(tasks), MaxFanOutWorkers))
	for i, task := range tasks {
		wp.Submit(func() {
			// A panic fails only this task
			defer func() {
				if r := recover(); r != nil {
					log.Printf("❌ Fan-out task %d panicked: %v\n%s", i, r, debug.Stack())
					results[i] = mo.Err[T](fmt.Errorf("task %d panicked: %v", i, r))
				}
			}()

			value, err := task()
			results[i] = mo.TupleToResult(value, err)
		})
	}
	wp.StopWait()

	return results
}

// JoinFailures joins the errors of every failed outcome, or returns nil
func JoinFailures[T any](results []mo.Result[T]) error {
	var errs []error
	for _, result := range results {
		if result.IsError() {
			errs = append(errs, result.Error())
		}
	}
	return errors.Join(errs...)
}
