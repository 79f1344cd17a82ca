package loadbalancer

import (
	"sync/atomic"

	"github.com/tair/foodgram/pkg/logger"
)

// RoundRobin hands out foodgram instances in turn
type RoundRobin struct {
	servers []string
	next    atomic.Uint64
}

// NewRoundRobin creates a round-robin balancer over a fixed instance list
func NewRoundRobin(servers []string) *RoundRobin {
	logger.Logger.Info().
		Int("server_count", len(servers)).
		Strs("servers", servers).
		Msg("Round-robin load balancer initialized")

	return &RoundRobin{servers: append([]string(nil), servers...)}
}

// Next returns the next server, or "" when there are none
func (rr *RoundRobin) Next() string {
	if len(rr.servers) == 0 {
		return ""
	}
	n := rr.next.Add(1) - 1
	return rr.servers[n%uint64(len(rr.servers))]
}

// Servers returns a copy of the instance list
func (rr *RoundRobin) Servers() []string {
	return append([]string(nil), rr.servers...)
}
