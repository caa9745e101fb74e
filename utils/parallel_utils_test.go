package utils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover the range
		sizes := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for bn := 0; bn < Np; bn++ {
				histo[pm.GetBucketDimension(bn)]++
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, sizes(2, 32))
		assert.Equal(t, map[int]int{1: 32}, sizes(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, sizes(287, 32))
		for K := 1; K < 200; K++ {
			pm := NewPartitionMap(7, K)
			assert.Equal(t, 0, pm.Partitions[0][0])
			assert.Equal(t, K, pm.Partitions[6][1])
			for bn := 1; bn < 7; bn++ {
				assert.Equal(t, pm.Partitions[bn-1][1], pm.Partitions[bn][0])
			}
		}
	}
	{ // Local and global indices invert each other
		for maxIndex := 5; maxIndex < 300; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				kLocal, kDim, bn := pm.GetLocalK(k)
				kMin, kMax := pm.GetBucketRange(bn)
				assert.True(t, k >= kMin && k < kMax)
				assert.Equal(t, kMax-kMin, kDim)
				assert.Equal(t, k, pm.GetGlobalK(kLocal, bn))
			}
			_, _, bn := pm.GetLocalK(maxIndex)
			assert.Equal(t, -1, bn)
		}
	}
	{ // Run visits every index once and reports errors
		var (
			pm    = NewPartitionMap(4, 3)
			count int64
		)
		assert.NoError(t, pm.Run(func(bn, kMin, kMax int) error {
			atomic.AddInt64(&count, int64(kMax-kMin))
			return nil
		}))
		assert.Equal(t, int64(3), count)
		err := pm.Run(func(bn, kMin, kMax int) error {
			if bn == 1 {
				return fmt.Errorf("bucket %d failed", bn)
			}
			return nil
		})
		assert.EqualError(t, err, "bucket 1 failed")
	}
}
