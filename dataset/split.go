package dataset

import (
	"math/rand"
	"sort"

	"github.com/strokeml/strokeml/pkg/errors"
)

// Split holds disjoint row-index sets that together cover the dataset.
type Split struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedSplit partitions row indices so each class keeps roughly its
// marginal proportion: per class, floor(n_class * (1 - trainRatio)) rows go
// to the test set, at least one when the class is non-empty. Classes are
// processed in ascending label order with a single generator seeded from
// seed, so identical inputs always produce identical partitions.
func StratifiedSplit(labels []int, trainRatio float64, seed int64) (*Split, error) {
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "cannot split empty dataset")
	}
	if trainRatio <= 0 || trainRatio >= 1 {
		return nil, errors.NewValueError("StratifiedSplit", "train ratio must be in (0, 1)")
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	split := &Split{}

	for _, c := range classes {
		indices := byClass[c]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		testCount := int(float64(len(indices)) * (1 - trainRatio))
		if testCount == 0 {
			testCount = 1
		}
		if testCount >= len(indices) {
			return nil, errors.Newf("StratifiedSplit: class %d has too few rows (%d) to stratify", c, len(indices))
		}

		trainCount := len(indices) - testCount
		split.TrainIndices = append(split.TrainIndices, indices[:trainCount]...)
		split.TestIndices = append(split.TestIndices, indices[trainCount:]...)
	}

	sort.Ints(split.TrainIndices)
	sort.Ints(split.TestIndices)
	return split, nil
}
