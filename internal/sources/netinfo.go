package sources

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

const (
	defaultIPLookupURL = "https://ifconfig.me"

	// ipCacheTTL rate-limits external IP lookups well below the
	// rotation interval.
	ipCacheTTL = 20 * time.Second

	ipLookupTimeout = 5 * time.Second
	ipPlaceholder   = "?.?.?.?"
)

// HostIP yields the hostname / external IP screen. The IP lookup runs
// in the background with its own timeout and is served from a cache,
// so the tick loop never waits on the network: until the first lookup
// completes the screen shows a placeholder address.
type HostIP struct {
	URL     string
	Timeout time.Duration

	client *http.Client
	logger ports.Logger

	mu         sync.Mutex
	cached     string
	fetchedAt  time.Time
	refreshing bool
}

// NewHostIP creates the hostname/IP source.
func NewHostIP(logger ports.Logger) *HostIP {
	return &HostIP{
		URL:     defaultIPLookupURL,
		Timeout: ipLookupTimeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

// Name identifies the source in logs.
func (s *HostIP) Name() string { return "hostip" }

// Produce returns the hostname and the cached external address.
func (s *HostIP) Produce(ctx context.Context) (domain.Content, bool) {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return domain.Centered(host, s.ip()), true
}

// ip returns the cached address, kicking off a background refresh when
// the cache has gone stale.
func (s *HostIP) ip() string {
	s.mu.Lock()
	ip := s.cached
	stale := time.Since(s.fetchedAt) >= ipCacheTTL
	kick := stale && !s.refreshing
	if kick {
		s.refreshing = true
	}
	s.mu.Unlock()

	if kick {
		go s.refresh()
	}
	if ip == "" {
		return ipPlaceholder
	}
	return ip
}

func (s *HostIP) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	ip, err := s.fetch(ctx)

	s.mu.Lock()
	if err == nil && ip != "" {
		s.cached = ip
	}
	s.fetchedAt = time.Now()
	s.refreshing = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("external IP lookup failed", ports.Err(err))
	}
}

func (s *HostIP) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
