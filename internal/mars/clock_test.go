package mars

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_ZeroValueStartsAtSolOne(t *testing.T) {
	var c Clock
	now := c.Now()
	assert.Equal(t, int64(0), now.TotalMillisols)
	assert.Equal(t, 1, now.Sol)
	assert.Equal(t, 0, now.Millisol)
	assert.Equal(t, 1, c.MissionSol())
}

func TestClock_AdvancePulses(t *testing.T) {
	var c Clock

	first := c.Advance()
	assert.Equal(t, int64(1), first.TotalMillisols)
	assert.Equal(t, 1, first.Millisol)
	assert.Equal(t, 1, first.Sol)
	assert.False(t, first.NewSol)
	assert.False(t, first.NewHalfSol)

	c.SetTotal(499)
	half := c.Advance()
	assert.Equal(t, 500, half.Millisol)
	assert.False(t, half.NewSol)
	assert.True(t, half.NewHalfSol)

	c.SetTotal(999)
	rollover := c.Advance()
	assert.Equal(t, int64(1000), rollover.TotalMillisols)
	assert.Equal(t, 0, rollover.Millisol)
	assert.Equal(t, 2, rollover.Sol)
	assert.True(t, rollover.NewSol)
	assert.True(t, rollover.NewHalfSol)
}

func TestClock_SetTotalClampsNegative(t *testing.T) {
	var c Clock
	c.SetTotal(-50)
	assert.Equal(t, int64(0), c.TotalMillisols())
}

func TestClock_ConcurrentReaders(t *testing.T) {
	var c Clock
	var wg sync.WaitGroup

	done := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					p := c.Now()
					assert.GreaterOrEqual(t, p.Millisol, 0)
					assert.Less(t, p.Millisol, MillisolsPerSol)
				}
			}
		}()
	}

	for range 5 * MillisolsPerSol {
		c.Advance()
	}
	close(done)
	wg.Wait()

	assert.Equal(t, int64(5000), c.TotalMillisols())
	assert.Equal(t, 6, c.MissionSol())
}
