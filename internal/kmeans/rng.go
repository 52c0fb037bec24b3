package kmeans

import "math/rand/v2"

// streamSalt decorrelates the master stream from a plain PCG seeded with the
// same value.
const streamSalt = 0x9e3779b97f4a7c15

// Streams derives one independent random stream per run from seed.
//
// A run's stream is used for its seed pick, its k-means++ draws and any
// empty-cluster reseeding, so results do not depend on how runs are
// scheduled.
func Streams(seed int64, runs int) []*rand.Rand {
	master := rand.New(rand.NewPCG(uint64(seed), streamSalt))
	out := make([]*rand.Rand, runs)
	for run := range out {
		out[run] = rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
	}
	return out
}
