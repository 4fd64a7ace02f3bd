package constants

import "time"

const (
	// DefaultTimeout bounds every external collaborator call
	DefaultTimeout = 10 * time.Second

	// HTTPClientTimeout for outbound REST calls (Google Calendar, LLM)
	HTTPClientTimeout = 30 * time.Second

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes

	// SlotDisplayLayout renders a slot start for email bodies,
	// e.g. "Mon, Jan 02 2006 | 03:04 PM"
	SlotDisplayLayout = "Mon, Jan 02 2006 | 03:04 PM"
	// SlotEndDisplayLayout renders a slot end, e.g. "03:30 PM"
	SlotEndDisplayLayout = "03:04 PM"

	// Slot proposal defaults
	DefaultLookaheadDays = 7
	DefaultOffsetDays    = 1
	DefaultTopSlots      = 5
	MaxSuggestedSlots    = 3
	ListEventsMaxResults = 250
	ListEventsCacheTTL   = 60 * time.Second
	MinMeaningfulTokens  = 3
)
