package domain

// ReportItemStatus tells whether a member contributed to a batch report.
type ReportItemStatus string

const (
	ReportItemOK      ReportItemStatus = "ok"
	ReportItemSkipped ReportItemStatus = "skipped"
)

// Cache key prefixes.
const (
	DownlineCachePrefix = "chitfund:downline:"
	PayoutCachePrefix   = "chitfund:payout:"
)

// MemberSource selects the backing store of the referral graph.
type MemberSource string

const (
	MemberSourcePostgres MemberSource = "postgres"
	MemberSourceNeo4j    MemberSource = "neo4j"
)

// CacheBackend selects where computed downlines are kept between calls.
type CacheBackend string

const (
	CacheNone      CacheBackend = "none"
	CacheMemory    CacheBackend = "memory"
	CacheRedis     CacheBackend = "redis"
	CacheMemcached CacheBackend = "memcached"
)
