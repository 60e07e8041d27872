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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareAlignments(t *testing.T) {
	type Case struct {
		a, b Alignment
		c    int
	}
	tests := []Case{
		// higher score
		{Alignment{Score: 5}, Alignment{Score: 4}, -1},
		// smaller token start
		{Alignment{Score: 4, TokenStart: 0, TokenEnd: 2}, Alignment{Score: 4, TokenStart: 2, TokenEnd: 4}, -1},
		// longer span
		{Alignment{Score: 4, TokenStart: 1, TokenEnd: 3}, Alignment{Score: 4, TokenStart: 1, TokenEnd: 4}, 1},
		// smaller query start
		{
			Alignment{Score: 4, QueryStart: 0, QueryEnd: 3, TokenStart: 1, TokenEnd: 3},
			Alignment{Score: 4, QueryStart: 1, QueryEnd: 3, TokenStart: 1, TokenEnd: 3},
			-1,
		},
		// smaller query end
		{
			Alignment{Score: 4, QueryStart: 1, QueryEnd: 4, TokenStart: 1, TokenEnd: 3},
			Alignment{Score: 4, QueryStart: 1, QueryEnd: 3, TokenStart: 1, TokenEnd: 3},
			1,
		},
		// matches is not compared
		{Alignment{Score: 4, TokenEnd: 2, Matches: 1}, Alignment{Score: 4, TokenEnd: 2, Matches: 2}, 0},
	}

	for i, test := range tests {
		c := CompareAlignments(&test.a, &test.b)
		if c != test.c {
			t.Errorf("[%d] %s vs %s, expected: %d, result: %d", i+1, test.a, test.b, test.c, c)
		}
		if r := CompareAlignments(&test.b, &test.a); r != -test.c {
			t.Errorf("[%d] not antisymmetric: %d vs %d", i+1, c, r)
		}
	}
}

func TestCompareCandidatesIndex(t *testing.T) {
	a := CandidateAlignment{Index: 0, Alignment: Alignment{Score: 4, QueryStart: 0, QueryEnd: 5, TokenEnd: 2}}
	b := CandidateAlignment{Index: 1, Alignment: Alignment{Score: 4, QueryStart: 0, QueryEnd: 3, TokenEnd: 2}}

	// the index is compared before the query end
	assert.Equal(t, -1, CompareCandidates(&a, &b))
	assert.Equal(t, 1, CompareCandidates(&b, &a))
	assert.Equal(t, 1, CompareAlignments(&a.Alignment, &b.Alignment))

	// but after the query start
	b.QueryStart = 0
	a.QueryStart = 1
	assert.Equal(t, 1, CompareCandidates(&a, &b))

	assert.Equal(t, 0, CompareCandidates(&a, &a))
}

func TestCandidateAlignmentsSort(t *testing.T) {
	rs := CandidateAlignments{
		{Index: 3, Alignment: Alignment{Score: 4, TokenStart: 1, TokenEnd: 3, QueryEnd: 2, Matches: 2}},
		{Index: 0},
		{Index: 2, Alignment: Alignment{Score: 4, TokenStart: 0, TokenEnd: 2, QueryEnd: 2, Matches: 2}},
		{Index: 1, Alignment: Alignment{Score: 4, TokenStart: 0, TokenEnd: 2, QueryEnd: 2, Matches: 2}},
	}
	sort.Sort(rs)

	idx := make([]int, len(rs))
	for i, r := range rs {
		idx[i] = r.Index
	}
	assert.Equal(t, []int{1, 2, 3, 0}, idx)
}
