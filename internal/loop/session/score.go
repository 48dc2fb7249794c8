package session

// ScoreKeeper accumulates points from invader kills. The total never decreases
// until Reset.
type ScoreKeeper struct {
	total int
}

// Add credits points. Non-positive values are ignored.
func (k *ScoreKeeper) Add(points int) {
	if points > 0 {
		k.total += points
	}
}

// Total returns the current score.
func (k *ScoreKeeper) Total() int {
	return k.total
}

// Reset zeroes the score.
func (k *ScoreKeeper) Reset() {
	k.total = 0
}
