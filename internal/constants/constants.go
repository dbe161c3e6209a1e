package constants

import "time"

const (
	DefaultPollInterval   = 60 * time.Second
	DefaultAccountTimeout = 2 * time.Minute
	DefaultConcurrency    = 1
)

// RecentMatchCount is how many match ids are requested per account per
// cycle. Only the newest match is ever ingested.
const RecentMatchCount = 1

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	RiotRequestsPerSecond = 20
	RiotBurst             = 20
	RiotRetryAfterDefault = 1 * time.Second
	RiotRetryAfterMax     = 10 * time.Second
	RiotErrorBodyLimit    = 512
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LeaderboardLimit  = 100
	MatchHistoryLimit = 20
)
