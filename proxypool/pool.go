package proxypool

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"randproxy/internal/shared/logger"
	"randproxy/internal/shared/types"
	"randproxy/proxypool/model"
	"randproxy/proxypool/scraper"
)

// Pool 维护一份按匿名级别过滤、定期刷新的内存代理列表，并随机分配代理。
// 刷新只在调用方请求代理且缓存过期时同步进行，没有后台任务。
// Pool 可被多个 goroutine 并发使用。
type Pool struct {
	interval  time.Duration
	anonymity model.AnonymitySet
	scraper   scraper.Scraper

	mu          sync.Mutex
	entries     []model.Proxy
	lastRefresh time.Time
	lastErr     error

	now  func() time.Time
	intn func(n int) int
}

// NewPool 校验配置并创建代理池，返回前同步执行一次刷新。
// sc 为 nil 时使用按配置创建的 GeonodeScraper。
// 首次刷新失败不会导致构造失败，此时代理池为空，错误可通过 LastError 获取。
func NewPool(ctx context.Context, conf types.ProxyPoolConf, sc scraper.Scraper) (*Pool, error) {
	p, err := newPool(conf, sc)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.refreshLocked(ctx); err != nil {
		l := logger.WithComponent("ProxyPool/Pool")
		l.Warn().Err(err).Msg("Initial refresh failed. Starting with an empty pool.")
	}
	return p, nil
}

func newPool(conf types.ProxyPoolConf, sc scraper.Scraper) (*Pool, error) {
	if conf.UpdateInterval < types.MinUpdateInterval {
		return nil, fmt.Errorf("%w: update interval %ds is below the minimum of %ds",
			ErrConfig, conf.UpdateInterval, types.MinUpdateInterval)
	}

	anonymity := model.NewAnonymitySet(conf.Anonymity...)
	if len(anonymity) == 0 {
		anonymity = model.DefaultAnonymity()
	}

	if sc == nil {
		endpoint := conf.Endpoint
		if endpoint == "" {
			endpoint = types.DefaultEndpoint
		}
		userAgent := conf.UserAgent
		if userAgent == "" {
			userAgent = types.DefaultUserAgent
		}
		sc = scraper.NewGeonodeScraper(endpoint, userAgent, conf.Timeout())
	}

	return &Pool{
		interval:  conf.Interval(),
		anonymity: anonymity,
		scraper:   sc,
		now:       time.Now,
		intn:      rand.Intn,
	}, nil
}

// GetProxy 在缓存过期时先刷新一次，然后均匀随机地返回一个代理。
//
// 刷新失败但缓存中仍有代理时，继续使用旧缓存，错误记录到日志和 LastError。
// 缓存为空时返回 ErrEmptyPool；若本次刷新也失败，返回的错误同时包装了刷新错误。
func (p *Pool) GetProxy(ctx context.Context) (model.Proxy, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var refreshErr error
	if p.staleLocked() {
		if err := p.refreshLocked(ctx); err != nil {
			refreshErr = err
			l := logger.WithComponent("ProxyPool/Pool")
			l.Warn().Err(err).Int("cached", len(p.entries)).Msg("Refresh failed. Serving from cache.")
		}
	}

	if len(p.entries) == 0 {
		if refreshErr != nil {
			return model.Proxy{}, errors.Join(ErrEmptyPool, refreshErr)
		}
		return model.Proxy{}, ErrEmptyPool
	}
	return p.entries[p.intn(len(p.entries))], nil
}

// Refresh 强制从上游重新拉取代理列表。
// 失败时保留原有缓存和刷新时间；上游返回零个匹配代理也是合法结果。
func (p *Pool) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshLocked(ctx)
}

// staleLocked 判断缓存是否过期。调用方必须持有 p.mu。
func (p *Pool) staleLocked() bool {
	return p.now().Sub(p.lastRefresh) > p.interval
}

// refreshLocked 是刷新的核心实现。调用方必须持有 p.mu。
func (p *Pool) refreshLocked(ctx context.Context) error {
	l := logger.WithComponent("ProxyPool/Pool")

	listings, err := p.scraper.Scrape(ctx)
	if err != nil {
		p.lastErr = fmt.Errorf("refresh from %s: %w", p.scraper.Name(), err)
		return p.lastErr
	}

	entries := make([]model.Proxy, 0, len(listings))
	for _, item := range listings {
		if p.anonymity.Contains(item.AnonymityLevel) {
			entries = append(entries, item.Proxy())
		}
	}

	p.entries = entries
	p.lastRefresh = p.now()
	p.lastErr = nil

	l.Info().
		Str("source", p.scraper.Name()).
		Int("fetched", len(listings)).
		Int("count", len(entries)).
		Msg("Proxy list refreshed.")
	return nil
}

// Size 返回当前缓存的代理数量，不触发刷新。
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Proxies returns a snapshot of the cached entries in upstream order.
func (p *Pool) Proxies() []model.Proxy {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Proxy, len(p.entries))
	copy(out, p.entries)
	return out
}

// LastRefresh 返回最近一次成功刷新的时间，从未成功时为零值。
func (p *Pool) LastRefresh() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRefresh
}

// LastError 返回最近一次刷新失败的原因，最近一次刷新成功时为 nil。
func (p *Pool) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
