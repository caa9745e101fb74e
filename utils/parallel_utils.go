package utils

import "sync"

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one. The first
// MaxIndex % ParallelDegree buckets hold the extra index.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // half-open [min, max) of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	var (
		size  = maxIndex / ParallelDegree
		extra = maxIndex % ParallelDegree
		kMin  int
	)
	for bn := range pm.Partitions {
		kMax := kMin + size
		if bn < extra {
			kMax++
		}
		pm.Partitions[bn] = [2]int{kMin, kMax}
		kMin = kMax
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bn int) (kMin, kMax int) {
	return pm.Partitions[bn][0], pm.Partitions[bn][1]
}

func (pm *PartitionMap) GetBucketDimension(bn int) int {
	kMin, kMax := pm.GetBucketRange(bn)
	return kMax - kMin
}

// GetLocalK locates global index k: its bucket, its offset within the
// bucket and the bucket size. Out of range indices return bn = -1.
func (pm *PartitionMap) GetLocalK(k int) (kLocal, kDim, bn int) {
	if k < 0 || k >= pm.MaxIndex {
		return k, pm.MaxIndex, -1
	}
	var (
		size  = pm.MaxIndex / pm.ParallelDegree
		extra = pm.MaxIndex % pm.ParallelDegree
		split = extra * (size + 1) // first index past the larger buckets
	)
	if k < split {
		bn = k / (size + 1)
	} else {
		bn = extra + (k-split)/size
	}
	kLocal = k - pm.Partitions[bn][0]
	kDim = pm.GetBucketDimension(bn)
	return
}

func (pm *PartitionMap) GetGlobalK(kLocal, bn int) int {
	if bn == -1 {
		return kLocal
	}
	return pm.Partitions[bn][0] + kLocal
}

// Run calls fn once per non-empty bucket, concurrently, and waits for all of
// them. The first error by bucket order is returned.
func (pm *PartitionMap) Run(fn func(bn, kMin, kMax int) error) (err error) {
	var (
		wg   sync.WaitGroup
		errs = make([]error, pm.ParallelDegree)
	)
	for bn := range pm.Partitions {
		kMin, kMax := pm.GetBucketRange(bn)
		if kMax <= kMin {
			continue
		}
		wg.Add(1)
		go func(bn, kMin, kMax int) {
			defer wg.Done()
			errs[bn] = fn(bn, kMin, kMax)
		}(bn, kMin, kMax)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}
