package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tair/foodgram/api-gateway/health"
	"github.com/tair/foodgram/api-gateway/loadbalancer"
	"github.com/tair/foodgram/api-gateway/proxy"
	"github.com/tair/foodgram/pkg/auth"
)

type revoked map[string]bool

func (r revoked) Revoke(_ context.Context, id string, _ time.Duration) error {
	r[id] = true
	return nil
}

func (r revoked) IsRevoked(_ context.Context, id string) (bool, error) { return r[id], nil }

type fakeHealth struct {
	healthpb.HealthClient
	status healthpb.HealthCheckResponse_ServingStatus
}

func (f fakeHealth) Check(context.Context, *healthpb.HealthCheckRequest, ...grpc.CallOption) (*healthpb.HealthCheckResponse, error) {
	return &healthpb.HealthCheckResponse{Status: f.status}, nil
}

type gateway struct {
	app      *fiber.App
	denylist revoked

	mu   sync.Mutex
	hits []string
}

func (g *gateway) seen() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.hits...)
}

func newGateway(t *testing.T, probes map[string]healthpb.HealthClient) *gateway {
	t.Helper()
	auth.Configure("gateway-test-secret", time.Hour)
	g := &gateway{denylist: revoked{}}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.hits = append(g.hits, r.Method+" "+r.URL.RequestURI())
		g.mu.Unlock()
		w.Header().Set("Content-Disposition", "attachment; filename=shopping_list.txt")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "egg - 2 pcs\n")
	}))
	t.Cleanup(upstream.Close)

	g.app = fiber.New()
	SetupRoutes(g.app, Options{
		Proxy:    proxy.NewReverseProxy(loadbalancer.NewRoundRobin([]string{upstream.URL}), 5*time.Second),
		Health:   health.NewCheckerWithClients(probes, "foodgram"),
		Denylist: g.denylist,
	})
	return g
}

func (g *gateway) do(t *testing.T, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := g.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	g := newGateway(t, nil)

	resp := g.do(t, http.MethodGet, "/api/recipes?tags=breakfast&page=2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"GET /api/recipes?tags=breakfast&page=2"}, g.seen())

	resp = g.do(t, http.MethodGet, "/api/ingredients/3", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesNeedValidToken(t *testing.T) {
	g := newGateway(t, nil)

	resp := g.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = g.do(t, http.MethodPost, "/api/recipes", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = g.do(t, http.MethodGet, "/api/recipes", "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "a present token must be valid even on public routes")
	assert.Empty(t, g.seen())

	token, err := auth.GenerateToken(7, "reader", "user")
	require.NoError(t, err)
	resp = g.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=shopping_list.txt", resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "egg - 2 pcs\n", string(body))

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	g.denylist[claims.ID] = true
	resp = g.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIsPublicMatchesWholePath(t *testing.T) {
	app := fiber.New()
	app.All("/*", func(c *fiber.Ctx) error {
		if IsPublic(c) {
			return c.SendStatus(http.StatusOK)
		}
		return c.SendStatus(http.StatusForbidden)
	})
	cases := map[string]int{
		"GET /api/users/12":                      http.StatusOK,
		"GET /api/users/me":                      http.StatusForbidden,
		"GET /api/users/subscriptions":           http.StatusForbidden,
		"POST /api/users":                        http.StatusOK,
		"DELETE /api/recipes/3":                  http.StatusForbidden,
		"GET /api/recipes/download_shopping_cart": http.StatusForbidden,
		"OPTIONS /api/recipes/3/favorite":        http.StatusOK,
	}
	for call, want := range cases {
		var method, path string
		for i := range call {
			if call[i] == ' ' {
				method, path = call[:i], call[i+1:]
				break
			}
		}
		resp, err := app.Test(httptest.NewRequest(method, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, call)
	}
}

func TestReadinessProbesInstances(t *testing.T) {
	g := newGateway(t, map[string]healthpb.HealthClient{
		"a:9090": fakeHealth{status: healthpb.HealthCheckResponse_SERVING},
		"b:9090": fakeHealth{status: healthpb.HealthCheckResponse_NOT_SERVING},
	})

	resp := g.do(t, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status health.GatewayHealth
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, health.StatusDegraded, status.Status)
	require.Len(t, status.Instances, 2)
	assert.Equal(t, "a:9090", status.Instances[0].Addr)
	assert.Equal(t, health.StatusHealthy, status.Instances[0].Status)
	assert.Equal(t, "NOT_SERVING", status.Instances[1].Error)
}

func TestReadinessWithNoHealthyInstanceIsUnavailable(t *testing.T) {
	g := newGateway(t, map[string]healthpb.HealthClient{
		"a:9090": fakeHealth{status: healthpb.HealthCheckResponse_NOT_SERVING},
	})
	assert.Equal(t, http.StatusServiceUnavailable, g.do(t, http.MethodGet, "/health/ready", "").StatusCode)
}
