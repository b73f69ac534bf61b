package spawn

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulation_RegisterUpToCap(t *testing.T) {
	p := NewPopulation(2)

	assert.True(t, p.CanSpawn(2))
	assert.False(t, p.CanSpawn(3))

	assert.True(t, p.Register())
	assert.True(t, p.Register())
	assert.False(t, p.Register())
	assert.Equal(t, 2, p.Current())
	assert.Zero(t, p.Free())
	assert.True(t, p.CanSpawn(0))
	assert.False(t, p.CanSpawn(-1))
}

func TestPopulation_UnregisterSaturates(t *testing.T) {
	p := NewPopulation(5)
	p.Register()

	p.Unregister()
	p.Unregister()
	p.Unregister()

	assert.Zero(t, p.Current())
	assert.Equal(t, 5, p.Free())
}

func TestPopulation_NegativeCap(t *testing.T) {
	p := NewPopulation(-3)

	assert.Zero(t, p.Max())
	assert.False(t, p.Register())
}

func TestPopulation_ConcurrentNeverOverruns(t *testing.T) {
	const limit = 50
	p := NewPopulation(limit)

	var (
		wg  sync.WaitGroup
		got atomic.Int32
	)
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.Register() {
				got.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(limit), got.Load())
	assert.Equal(t, limit, p.Current())

	for range 300 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Unregister()
		}()
	}
	wg.Wait()
	assert.Zero(t, p.Current())
}

func BenchmarkPopulation_RegisterUnregister(b *testing.B) {
	p := NewPopulation(1 << 20)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Register()
			p.Unregister()
		}
	})
}
