// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/meterio/meter-auction/meter"
)

// Clock supplies the current time in unix seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// FixedClock is a manually driven clock.
type FixedClock struct {
	now atomic.Uint64
}

func NewFixedClock(now uint64) *FixedClock {
	c := &FixedClock{}
	c.now.Store(now)
	return c
}

func (c *FixedClock) Now() uint64 { return c.now.Load() }

func (c *FixedClock) Set(now uint64) { c.now.Store(now) }

func (c *FixedClock) Advance(secs uint64) uint64 { return c.now.Add(secs) }

// MaxClockOffset is the offset from the NTP server above which a warning is logged.
const MaxClockOffset = 5 * time.Second

// NTPClock corrects the local clock by the offset reported by an NTP server.
// It never goes backwards.
type NTPClock struct {
	server string
	query  func(host string) (*ntp.Response, error)

	mu     sync.Mutex
	offset time.Duration
	last   uint64
}

func NewNTPClock(server string) *NTPClock {
	return &NTPClock{server: server, query: ntp.Query}
}

// Sync queries the NTP server once and updates the offset.
func (c *NTPClock) Sync() error {
	resp, err := c.query(c.server)
	if err != nil {
		slog.Debug("failed to access NTP", "server", c.server, "err", err)
		return err
	}
	if err := resp.Validate(); err != nil {
		slog.Debug("invalid NTP response", "server", c.server, "err", err)
		return err
	}
	if resp.ClockOffset > MaxClockOffset || resp.ClockOffset < -MaxClockOffset {
		slog.Warn("clock offset detected", "offset", meter.PrettyDuration(resp.ClockOffset))
	}
	c.mu.Lock()
	c.offset = resp.ClockOffset
	c.mu.Unlock()
	return nil
}

// Offset returns the last synced offset.
func (c *NTPClock) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

func (c *NTPClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := uint64(time.Now().Add(c.offset).Unix())
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// Run resyncs every interval until stop is closed.
func (c *NTPClock) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sync()
		case <-stop:
			return
		}
	}
}
