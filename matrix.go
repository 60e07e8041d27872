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

// directions in the traceback matrix
const (
	dirNone uint8 = iota
	dirDiag
	dirUp
	dirLeft
)

// cell is a position in the score matrix.
type cell struct {
	i, j int
}

// swMatrix stores the score and direction matrices of one sequence pair
// in flat buffers, indexed by i*cols+j.
type swMatrix struct {
	rows, cols int

	scores []int64
	dirs   []uint8

	maxScore int64
	maxCells []cell // all cells reaching maxScore, in row-major order
}

var poolMatrix = &sync.Pool{New: func() interface{} {
	return &swMatrix{
		scores:   make([]int64, 0, 1024),
		dirs:     make([]uint8, 0, 1024),
		maxCells: make([]cell, 0, 16),
	}
}}

// ensureSize resizes the buffers for a (rows x cols) matrix.
// Only row 0 and column 0 are reset, all other cells are
// overwritten by fill().
func (m *swMatrix) ensureSize(rows, cols int) {
	m.rows, m.cols = rows, cols
	n := rows * cols
	if n <= cap(m.scores) {
		m.scores = m.scores[:n]
	} else {
		m.scores = make([]int64, n)
	}
	if n <= cap(m.dirs) {
		m.dirs = m.dirs[:n]
	} else {
		m.dirs = make([]uint8, n)
	}

	for j := 0; j < cols; j++ {
		m.scores[j] = 0
		m.dirs[j] = dirNone
	}
	for i := cols; i < n; i += cols {
		m.scores[i] = 0
		m.dirs[i] = dirNone
	}

	m.maxScore = 0
	m.maxCells = m.maxCells[:0]
}

// fill computes the local alignment matrices of query (rows) and
// candidate (columns), and records the maximum score and every cell
// attaining it.
func (m *swMatrix) fill(query, candidate []uint64, p *ScoreParams) {
	m.ensureSize(len(query)+1, len(candidate)+1)

	match := int64(p.Match)
	mismatch := int64(p.Mismatch)
	gap := int64(p.Gap)

	cols := m.cols
	scores := m.scores
	dirs := m.dirs

	var diag, up, left, best int64
	var q uint64
	var k, prev int
	var i, j int
	for i = 1; i < m.rows; i++ {
		q = query[i-1]
		k = i * cols    // current row
		prev = k - cols // previous row
		for j = 1; j < cols; j++ {
			if q == candidate[j-1] {
				diag = scores[prev+j-1] + match
			} else {
				diag = scores[prev+j-1] + mismatch
			}
			up = scores[prev+j] + gap
			left = scores[k+j-1] + gap

			best = 0
			if diag > best {
				best = diag
			}
			if up > best {
				best = up
			}
			if left > best {
				best = left
			}

			scores[k+j] = best
			dirs[k+j] = chooseDirection(best, diag, up)

			if best == 0 {
				continue
			}
			if best > m.maxScore {
				m.maxScore = best
				m.maxCells = m.maxCells[:0]
				m.maxCells = append(m.maxCells, cell{i, j})
			} else if best == m.maxScore {
				m.maxCells = append(m.maxCells, cell{i, j})
			}
		}
	}
}

// chooseDirection picks the traceback direction of a cell with the
// priority DIAG > UP > LEFT. best is the max of 0 and the three
// candidates, so a positive best equal to neither diag nor up
// can only come from left.
func chooseDirection(best, diag, up int64) uint8 {
	if best <= 0 {
		return dirNone
	}
	if best == diag {
		return dirDiag
	}
	if best == up {
		return dirUp
	}
	return dirLeft
}

func (m *swMatrix) score(i, j int) int64 {
	return m.scores[i*m.cols+j]
}

func (m *swMatrix) dir(i, j int) uint8 {
	return m.dirs[i*m.cols+j]
}
