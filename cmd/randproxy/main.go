package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"randproxy/internal/shared/config"
	"randproxy/internal/shared/logger"
	"randproxy/internal/shared/types"
	"randproxy/proxypool"
	"randproxy/proxypool/dialer"
	"randproxy/proxypool/model"
)

func main() {
	configDir := flag.String("configdir", "configs", "Path to config directory")
	count := flag.Int("n", 1, "Number of random proxies to print")
	fetchURL := flag.String("fetch", "", "Fetch this URL through the first selected proxy")
	scheme := flag.String("scheme", "http", "Proxy scheme used with -fetch: http or socks5")
	flag.Parse()

	iniPath := filepath.Join(*configDir, "randproxy.ini")

	// 1. 加载 .env 与 .ini 配置
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
	cfg := new(types.Config)
	if err := config.LoadIni(cfg, iniPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	// 2. 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, *count, *fetchURL, *scheme); err != nil {
		logger.Error().Err(err).Msg("randproxy failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *types.Config, out io.Writer, count int, fetchURL, scheme string) error {
	// 3. 创建代理池（构造时同步拉取一次）
	pool, err := proxypool.NewPool(ctx, cfg.ProxyPoolConf, nil)
	if err != nil {
		return err
	}

	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		p, err := pool.GetProxy(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p.Addr())

		if i == 0 && fetchURL != "" {
			if err := fetchThrough(ctx, out, p, fetchURL, scheme, cfg.ProxyPoolConf.Timeout()); err != nil {
				return err
			}
		}
	}
	return nil
}

func fetchThrough(ctx context.Context, out io.Writer, p model.Proxy, target, scheme string, timeout time.Duration) error {
	client, err := dialer.NewHTTPClient(p, scheme, timeout)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s via %s: %w", target, p.Addr(), err)
	}
	resp.Body.Close()
	fmt.Fprintf(out, "%s %s\n", resp.Proto, resp.Status)
	return nil
}
