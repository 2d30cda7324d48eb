package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/voidswarm/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSwarmCollapse  BookmarkType = "swarm_collapse"
	BookmarkTunnelingSpike BookmarkType = "tunneling_spike"
	BookmarkShipCritical   BookmarkType = "ship_critical"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentAlienPeak int  // peak alien count since the last collapse
	shipCritical    bool // latched until the ship recovers
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling average
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkSwarmCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTunnelingSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkShipCritical(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Aliens > bd.recentAlienPeak {
		bd.recentAlienPeak = stats.Aliens
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSwarmCollapse(stats WindowStats) *Bookmark {
	if bd.recentAlienPeak == 0 {
		return nil
	}
	cfg := bd.cfg.SwarmCollapse

	drop := bd.recentAlienPeak - stats.Aliens
	dropPercent := float64(drop) / float64(bd.recentAlienPeak)
	if dropPercent <= cfg.DropPercent || drop < cfg.MinDrop {
		return nil
	}

	oldPeak := bd.recentAlienPeak
	bd.recentAlienPeak = stats.Aliens
	return &Bookmark{
		Type:        BookmarkSwarmCollapse,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Swarm shrank %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Aliens),
	}
}

func (bd *BookmarkDetector) checkTunnelingSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	cfg := bd.cfg.TunnelingSpike

	var total int
	for _, h := range history {
		total += h.TunnelingDespawns
	}
	avg := float64(total) / float64(len(history))
	if stats.TunnelingDespawns < cfg.MinCount || float64(stats.TunnelingDespawns) <= avg*cfg.Multiplier {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkTunnelingSpike,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d aliens entered walls, average is %.1f", stats.TunnelingDespawns, avg),
	}
}

func (bd *BookmarkDetector) checkShipCritical(stats WindowStats) *Bookmark {
	critical := stats.ShipAlive && stats.ShipHealthFrac < bd.cfg.ShipCritical.Fraction
	if !critical {
		bd.shipCritical = false
		return nil
	}
	if bd.shipCritical {
		return nil
	}
	bd.shipCritical = true
	return &Bookmark{
		Type:        BookmarkShipCritical,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Ship health at %.0f%%", stats.ShipHealthFrac*100),
	}
}
