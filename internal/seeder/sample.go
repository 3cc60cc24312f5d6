package seeder

import "github.com/yrgohrm/databaser/internal/types"

// SampleProducts draws n distinct entries from the price snapshot using
// a partial Fisher-Yates shuffle over the snapshot indices. Unlike
// rejection sampling it terminates for any n; when n exceeds the number
// of distinct products it is capped at the snapshot size.
func (g *DataGenerator) SampleProducts(prices []types.ProductPrice, n int) []types.ProductPrice {
	if n > len(prices) {
		n = len(prices)
	}
	if n <= 0 {
		return nil
	}

	idx := make([]int, len(prices))
	for i := range idx {
		idx[i] = i
	}

	picked := make([]types.ProductPrice, 0, n)
	for i := 0; i < n; i++ {
		j := i + g.rand.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked = append(picked, prices[idx[i]])
	}
	return picked
}
