package bench

import (
	"math/rand"
	"sync"
)

// Budget owns the remaining request counters shared by all workers.
// Eligibility check, adapter pick and decrement happen as one critical
// section so two workers can never claim the last unit of the same counter.
// The remote call itself always happens outside the lock.
type Budget struct {
	mu        sync.Mutex
	remaining map[string]int
	order     []string
	rng       *rand.Rand
}

// NewSingleBudget gives one adapter the whole request budget.
func NewSingleBudget(adapter string, total int) *Budget {
	return &Budget{
		remaining: map[string]int{adapter: total},
		order:     []string{adapter},
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewDistributedBudget splits total evenly across adapters using integer
// division. The remainder is deliberately dropped so repeated runs issue the
// same per adapter counts; callers surface the shortfall via Size.
func NewDistributedBudget(adapters []string, total int) *Budget {
	per := 0
	if len(adapters) > 0 {
		per = total / len(adapters)
	}
	remaining := make(map[string]int, len(adapters))
	order := make([]string, 0, len(adapters))
	for _, name := range adapters {
		remaining[name] = per
		order = append(order, name)
	}
	return &Budget{
		remaining: remaining,
		order:     order,
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
}

// Claim picks an adapter with remaining budget uniformly at random,
// decrements its counter and returns it. ok is false once every counter is
// zero, which is the worker termination signal.
func (b *Budget) Claim() (adapter string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	eligible := b.order[:0:0]
	for _, name := range b.order {
		if b.remaining[name] > 0 {
			eligible = append(eligible, name)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	picked := eligible[b.rng.Intn(len(eligible))]
	b.remaining[picked]--
	return picked, true
}

// Size reports the units not yet claimed across all counters.
func (b *Budget) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.remaining {
		total += n
	}
	return total
}

// PerAdapter returns a copy of the remaining counters.
func (b *Budget) PerAdapter() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]int, len(b.remaining))
	for name, n := range b.remaining {
		out[name] = n
	}
	return out
}
