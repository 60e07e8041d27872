// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package tokalign

import (
	"sync"

	"github.com/twotwotwo/sorts"
)

// TopK aligns the query to every candidate and returns the k best
// results, ranked by CompareCandidates. Candidates are aligned
// concurrently, the returned order does not depend on the number of
// threads. Nil is returned if k <= 0 or there's no candidates.
func (a *Aligner) TopK(query []uint64, candidates [][]uint64, k int) []CandidateAlignment {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	results := make([]CandidateAlignment, len(candidates))

	if a.threads == 1 || len(candidates) == 1 {
		for i, s := range candidates {
			results[i] = CandidateAlignment{Index: i, Alignment: a.Align(query, s)}
		}
	} else {
		var wg sync.WaitGroup
		tokens := make(chan int, a.threads)
		for i, s := range candidates {
			wg.Add(1)
			tokens <- 1
			go func(i int, s []uint64) {
				// each goroutine writes only its own slot
				results[i] = CandidateAlignment{Index: i, Alignment: a.Align(query, s)}
				wg.Done()
				<-tokens
			}(i, s)
		}
		wg.Wait()
	}

	sorts.Quicksort(CandidateAlignments(results))

	if k < len(results) {
		results = results[:k]
	}
	return results
}

// Best returns the best alignment among all candidates.
// The returned bool is false if there's no candidates.
func (a *Aligner) Best(query []uint64, candidates [][]uint64) (CandidateAlignment, bool) {
	rs := a.TopK(query, candidates, 1)
	if len(rs) == 0 {
		return CandidateAlignment{}, false
	}
	return rs[0], true
}

// TopK ranks candidates with DefaultScoreParams and Threads goroutines.
func TopK(query []uint64, candidates [][]uint64, k int) []CandidateAlignment {
	return New(DefaultScoreParams).TopK(query, candidates, k)
}

// Best returns the best candidate with DefaultScoreParams
// and Threads goroutines.
func Best(query []uint64, candidates [][]uint64) (CandidateAlignment, bool) {
	return New(DefaultScoreParams).Best(query, candidates)
}
