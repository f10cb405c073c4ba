package statsbomb

import (
	"context"
	"errors"
	"math/rand"
)

// SampleSize bounds how many candidate ids PickRandom draws before choosing.
const SampleSize = 50

// PickRandom draws up to SampleSize ids without replacement and returns one of
// them.
func PickRandom(ids []int64, rng *rand.Rand) (int64, error) {
	if len(ids) == 0 {
		return 0, errors.New("no match ids to choose from")
	}
	pool := append([]int64(nil), ids...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > SampleSize {
		pool = pool[:SampleSize]
	}
	return pool[rng.Intn(len(pool))], nil
}

// RandomThreeSixtyMatch lists the 360 matches and picks one at random.
func (c *Client) RandomThreeSixtyMatch(ctx context.Context, rng *rand.Rand) (int64, error) {
	ids, err := c.ThreeSixtyMatchIDs(ctx)
	if err != nil {
		return 0, err
	}
	return PickRandom(ids, rng)
}
