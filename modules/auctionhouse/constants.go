package auctionhouse

const (
	Version          = "v0.1.0"
	DBVersion        = 1
	EventHashVersion = 1

	// MinBidIncrementPercentage is the minimum raise of a bid over the current one.
	MinBidIncrementPercentage = 5

	// TimeBuffer is the anti-snipe window in seconds, a bid closer than that to the
	// end of an auction pushes the end to TimeBuffer seconds after the bid.
	TimeBuffer = 15 * 60
)
