package utilities_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	counter := utilities.NewCounter()

	hit, miss := counter.Read("employees")
	assert.Equal(t, -1, hit)
	assert.Equal(t, -1, miss)
	assert.Zero(t, counter.HitRatio())

	assert.Equal(t, 1, counter.IncrementMiss("employees"))
	assert.Equal(t, 1, counter.IncrementHit("employees"))
	assert.Equal(t, 2, counter.IncrementHit("employees"))
	assert.Equal(t, 1, counter.IncrementHit("employee_1"))
	hit, miss = counter.Read("employees")
	assert.Equal(t, 2, hit)
	assert.Equal(t, 1, miss)
	assert.InDelta(t, 0.75, counter.HitRatio(), 0.001)

	counters := counter.ReadAll()
	assert.Equal(t, map[string]int{"employees": 2, "employee_1": 1}, counters.CounterHits)
	assert.Equal(t, map[string]int{"employees": 1, "employee_1": 0}, counters.CounterMisses)

	counter.Clear()
	hit, _ = counter.Read("employees")
	assert.Equal(t, -1, hit)
}

func TestCounterConcurrent(t *testing.T) {
	counter := utilities.NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.IncrementHit("employees")
			}
		}()
	}
	wg.Wait()
	hit, _ := counter.Read("employees")
	assert.Equal(t, 1000, hit)
}

func TestTimers(t *testing.T) {
	timers := utilities.NewTimers()

	//stopping a timer that was never started fails
	assert.Equal(t, int64(-1), timers.Stop("employees", 0))

	first := timers.Start("employees")
	second := timers.Start("employees")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, int64(-1), timers.Stop("employees", 2))
	assert.GreaterOrEqual(t, timers.Stop("employees", first), int64(0))

	//unstopped timers don't contribute to the average
	_ = timers.Start("employee")
	result := timers.ReadAll()
	assert.Contains(t, result.Totals, "employees")
	assert.Equal(t, result.Totals["employees"], result.Averages["employees"])
	assert.NotContains(t, result.Averages, "employee")

	timers.Clear()
	assert.Equal(t, int64(-1), timers.Stop("employees", second))
	assert.Empty(t, timers.ReadAll().Totals)
}

func TestLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := utilities.NewLogger(buffer)
	ctx := internal.CtxWithCorrelationId(context.Background(), "abc123")

	err := logger.Configure(map[string]string{"LOG_LEVEL": "info"})
	assert.Nil(t, err)
	logger.Debug(ctx, "not logged")
	assert.Empty(t, buffer.String())
	logger.Info(ctx, "employee %d read", 1)
	assert.Contains(t, buffer.String(), "employee 1 read")
	assert.Contains(t, buffer.String(), `"correlation_id":"abc123"`)
	assert.Contains(t, buffer.String(), `"level":"info"`)

	buffer.Reset()
	err = logger.Configure(map[string]string{"LOG_LEVEL": "trace"})
	assert.Nil(t, err)
	logger.Trace(context.Background(), "traced")
	assert.Contains(t, buffer.String(), "traced")
	assert.NotContains(t, buffer.String(), "correlation_id")
	assert.Nil(t, logger.Close(context.Background()))
}
