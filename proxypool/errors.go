package proxypool

import (
	"errors"

	"randproxy/proxypool/scraper"
)

var (
	// ErrConfig 表示构造参数非法，例如刷新间隔小于下限。
	ErrConfig = errors.New("invalid proxy pool config")
	// ErrEmptyPool 表示当前没有可分配的代理。
	ErrEmptyPool = errors.New("proxy pool is empty")

	ErrNetwork  = scraper.ErrNetwork
	ErrUpstream = scraper.ErrUpstream
)
