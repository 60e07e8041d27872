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

import "sync"

// MatchBlock is a half-open range [Start, End) of consecutive matched
// positions in the candidate sequence.
type MatchBlock struct {
	Start int
	End   int
}

// Len returns the number of matched tokens in the block.
func (b MatchBlock) Len() int {
	return b.End - b.Start
}

var poolPositions = &sync.Pool{New: func() interface{} {
	tmp := make([]int, 0, 128)
	return &tmp
}}

// traceback walks back from (i, j) until a NONE cell, a zero-score cell
// or the matrix boundary. It returns the start row and column, which are
// the inclusive lower bounds of the alignment in query and candidate,
// and the number of matched tokens. With withBlocks, the matched
// candidate positions are merged into match blocks.
func traceback(m *swMatrix, i, j int, query, candidate []uint64, withBlocks bool) (int, int, int, []MatchBlock) {
	var matches int
	var positions *[]int
	if withBlocks {
		positions = poolPositions.Get().(*[]int)
		*positions = (*positions)[:0]
	}

	var d uint8
	for i > 0 && j > 0 {
		d = m.dir(i, j)
		if d == dirNone || m.score(i, j) <= 0 {
			break
		}

		switch d {
		case dirDiag:
			i--
			j--
			if query[i] == candidate[j] {
				matches++
				if withBlocks {
					*positions = append(*positions, j)
				}
			}
		case dirUp:
			i--
		default:
			j--
		}
	}

	if !withBlocks {
		return i, j, matches, nil
	}

	blocks := mergeBlocks(*positions)
	poolPositions.Put(positions)
	return i, j, matches, blocks
}

// mergeBlocks merges matched positions, collected in traversal (descending)
// order, into ascending half-open blocks of consecutive positions.
func mergeBlocks(positions []int) []MatchBlock {
	if len(positions) == 0 {
		return nil
	}

	reverseInts(positions)

	blocks := make([]MatchBlock, 0, 4)
	start := positions[0]
	prev := start
	for _, pos := range positions[1:] {
		if pos == prev+1 {
			prev = pos
			continue
		}
		blocks = append(blocks, MatchBlock{Start: start, End: prev + 1})
		start, prev = pos, pos
	}
	blocks = append(blocks, MatchBlock{Start: start, End: prev + 1})

	return blocks
}
