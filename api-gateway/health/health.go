package health

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tair/foodgram/pkg/logger"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// InstanceHealth is the probe result for one foodgram instance
type InstanceHealth struct {
	Addr      string    `json:"addr"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway       string           `json:"gateway"`
	Status        string           `json:"status"`
	Instances     []InstanceHealth `json:"instances"`
	UptimeSeconds float64          `json:"uptime_seconds"`
}

// Checker probes instances over the grpc.health.v1 protocol
type Checker struct {
	service   string
	clients   map[string]healthpb.HealthClient
	conns     []*grpc.ClientConn
	addrs     []string
	startTime time.Time
}

// NewChecker dials every address lazily; connections are established on first probe
func NewChecker(addrs []string, service string) (*Checker, error) {
	c := &Checker{
		service:   service,
		clients:   make(map[string]healthpb.HealthClient, len(addrs)),
		addrs:     addrs,
		startTime: time.Now(),
	}
	for _, addr := range addrs {
		conn, err := grpc.NewClient(addr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.conns = append(c.conns, conn)
		c.clients[addr] = healthpb.NewHealthClient(conn)
	}
	return c, nil
}

// NewCheckerWithClients builds a checker over existing health clients
func NewCheckerWithClients(clients map[string]healthpb.HealthClient, service string) *Checker {
	return &Checker{
		service:   service,
		clients:   clients,
		addrs:     slices.Sorted(maps.Keys(clients)),
		startTime: time.Now(),
	}
}

// Close releases the probe connections
func (c *Checker) Close() {
	for _, conn := range c.conns {
		conn.Close()
	}
}

// CheckInstance probes one instance
func (c *Checker) CheckInstance(ctx context.Context, addr string) InstanceHealth {
	start := time.Now()
	result := InstanceHealth{Addr: addr, Status: StatusUnhealthy, Timestamp: start}

	resp, err := c.clients[addr].Check(ctx, &healthpb.HealthCheckRequest{Service: c.service})
	result.LatencyMS = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		result.Error = err.Error()
	case resp.GetStatus() != healthpb.HealthCheckResponse_SERVING:
		result.Error = resp.GetStatus().String()
	default:
		result.Status = StatusHealthy
	}
	return result
}

// CheckAll probes every instance concurrently
func (c *Checker) CheckAll(ctx context.Context) GatewayHealth {
	results := make([]InstanceHealth, len(c.addrs))
	var wg sync.WaitGroup
	for i, addr := range c.addrs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.CheckInstance(ctx, addr)
			if results[i].Status != StatusHealthy {
				logger.Warn(ctx).
					Str("addr", addr).
					Str("error", results[i].Error).
					Msg("Instance health check failed")
			}
		}()
	}
	wg.Wait()

	return GatewayHealth{
		Gateway:       "api-gateway",
		Status:        overallStatus(results),
		Instances:     results,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

func overallStatus(results []InstanceHealth) string {
	healthy := 0
	for _, r := range results {
		if r.Status == StatusHealthy {
			healthy++
		}
	}
	switch {
	case len(results) > 0 && healthy == len(results):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// Uptime is how long the checker has existed
func (c *Checker) Uptime() time.Duration {
	return time.Since(c.startTime)
}
