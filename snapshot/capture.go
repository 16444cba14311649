package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/azihell/properties-dashboard/utils"
)

// Options configures a Capturer.
type Options struct {
	ChromeBin  string
	Timeout    time.Duration
	MaxRetries int
	Width      int64
	Height     int64
	// WaitSelector is waited for before the screenshot; "body" when empty.
	WaitSelector string
	// Settle gives the map layers time to draw after the selector appears.
	Settle time.Duration
	// Quality is the PNG/JPEG quality passed to FullScreenshot.
	Quality int
}

// Capturer renders a dashboard page in headless Chrome and saves a
// full-page screenshot.
type Capturer struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a Capturer. Zero options fall back to sensible values.
func New(opts Options, logger *utils.Logger) *Capturer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.Width <= 0 {
		opts.Width = 1600
	}
	if opts.Height <= 0 {
		opts.Height = 1000
	}
	if opts.WaitSelector == "" {
		opts.WaitSelector = "body"
	}
	if opts.Quality <= 0 {
		opts.Quality = 90
	}
	return &Capturer{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture loads pageURL and writes the screenshot to out.
func (c *Capturer) Capture(ctx context.Context, pageURL, out string) error {
	if err := validateURL(pageURL); err != nil {
		return err
	}

	chromeBin := c.opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(c.opts.Width), int(c.opts.Height)),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var buf []byte
	err := c.retry.Do(ctx, "snapshot", func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.opts.Timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(c.opts.Width, c.opts.Height),
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible(c.opts.WaitSelector, chromedp.ByQuery),
			chromedp.Sleep(c.opts.Settle),
			chromedp.FullScreenshot(&buf, c.opts.Quality),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", pageURL, err)
	}

	if err := writeFile(out, buf); err != nil {
		return err
	}
	c.logger.Info("[snapshot] Saved %d bytes to %s", len(buf), out)
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("snapshot: invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file") || (u.Scheme != "file" && u.Host == "") {
		return fmt.Errorf("snapshot: unsupported url %q", raw)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if len(data) == 0 {
		return errors.New("snapshot: empty screenshot")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
