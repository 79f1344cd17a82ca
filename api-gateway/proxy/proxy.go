package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/foodgram/api-gateway/loadbalancer"
	"github.com/tair/foodgram/pkg/logger"
)

// hopHeaders are connection-scoped and never forwarded
var hopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
	"host":                true,
	"content-length":      true,
}

// ReverseProxy forwards requests to foodgram instances
type ReverseProxy struct {
	balancer *loadbalancer.RoundRobin
	client   *http.Client
}

// NewReverseProxy creates a reverse proxy over the balancer's instances
func NewReverseProxy(balancer *loadbalancer.RoundRobin, timeout time.Duration) *ReverseProxy {
	return &ReverseProxy{
		balancer: balancer,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Handler proxies every request it receives
func (p *ReverseProxy) Handler() fiber.Handler {
	return p.ProxyRequest
}

// ProxyRequest forwards the request to the next instance
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx) error {
	serverURL := p.balancer.Next()
	if serverURL == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "No available foodgram instances",
		})
	}

	targetURL := buildTargetURL(c, serverURL)
	logger.Debug(c.UserContext()).
		Str("target_url", targetURL).
		Msg("Proxying request")

	req, err := http.NewRequestWithContext(c.UserContext(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create request",
		})
	}
	copyHeaders(c, req)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error(c.UserContext()).Err(err).Str("target", serverURL).Msg("Upstream request failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to reach foodgram",
		})
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if hopHeaders[strings.ToLower(key)] {
			continue
		}
		for i, value := range values {
			if i == 0 {
				c.Set(key, value)
			} else {
				c.Response().Header.Add(key, value)
			}
		}
	}
	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read upstream response",
		})
	}
	return c.Send(body)
}

func buildTargetURL(c *fiber.Ctx, serverURL string) string {
	target := serverURL + string(c.Request().URI().Path())
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}
	return target
}

func copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if hopHeaders[strings.ToLower(k)] {
			return
		}
		req.Header.Add(k, string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}
