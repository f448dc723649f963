package data

import "fmt"

const CounterKeyEmployees string = "employees"

// CounterKeyEmployee is the key cache hits/misses for a single employee are
// counted under.
func CounterKeyEmployee(id int64) string {
	return fmt.Sprintf("employee_%d", id)
}

type CacheCounters struct {
	CounterHits   map[string]int `json:"counter_hits,omitempty"`
	CounterMisses map[string]int `json:"counter_misses,omitempty"`
}
