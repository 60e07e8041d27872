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

// Package tokalign computes Smith-Waterman local alignments between
// sequences of integer tokens, and ranks one query against many
// candidate sequences.
package tokalign

import (
	"fmt"
	"runtime"
)

// ScoreParams holds the scores of a match, a mismatch and a gap.
// Values are not validated, any integers are accepted.
type ScoreParams struct {
	Match    int32
	Mismatch int32
	Gap      int32
}

// DefaultScoreParams is the default linear scoring scheme.
var DefaultScoreParams = ScoreParams{
	Match:    2,
	Mismatch: -1,
	Gap:      -1,
}

// Alignment is the best local alignment of a query and a candidate sequence.
// All offsets are 0-based, starts are inclusive and ends are exclusive.
type Alignment struct {
	Score int64

	QueryStart int
	QueryEnd   int

	TokenStart int // start in the candidate sequence
	TokenEnd   int // end in the candidate sequence

	Matches int // number of identical aligned token pairs
}

func (a Alignment) String() string {
	return fmt.Sprintf("score: %d, query: [%d, %d), tokens: [%d, %d), matches: %d",
		a.Score, a.QueryStart, a.QueryEnd, a.TokenStart, a.TokenEnd, a.Matches)
}

// CandidateAlignment is an Alignment of the Index-th candidate of a batch.
type CandidateAlignment struct {
	Index int
	Alignment
}

func (c CandidateAlignment) String() string {
	return fmt.Sprintf("index: %d, %s", c.Index, c.Alignment)
}

// PairAligner aligns a query sequence to a candidate sequence.
type PairAligner interface {
	Align(query, candidate []uint64) Alignment
}

// Threads is the default concurrency number of TopK() and Best().
var Threads = runtime.NumCPU()

// Aligner aligns token sequences with a fixed scoring scheme.
// It is safe for concurrent use.
type Aligner struct {
	params  ScoreParams
	threads int
}

// New returns an Aligner using Threads goroutines for batch alignment.
func New(params ScoreParams) *Aligner {
	return NewWithThreads(params, Threads)
}

// NewWithThreads returns an Aligner with the given concurrency number
// for batch alignment. threads <= 0 means runtime.NumCPU().
func NewWithThreads(params ScoreParams, threads int) *Aligner {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Aligner{params: params, threads: threads}
}

// Params returns the scoring scheme.
func (a *Aligner) Params() ScoreParams {
	return a.params
}

// Threads returns the concurrency number for batch alignment.
func (a *Aligner) Threads() int {
	return a.threads
}

// Align returns the best local alignment of query and candidate.
// A zero Alignment is returned if either sequence is empty or
// no positive-scoring alignment exists.
func (a *Aligner) Align(query, candidate []uint64) Alignment {
	aln, _ := a.align(query, candidate, false)
	return aln
}

// AlignWithBlocks is Align, also returning the ascending runs of
// consecutive matched positions in the candidate sequence.
func (a *Aligner) AlignWithBlocks(query, candidate []uint64) (Alignment, []MatchBlock) {
	return a.align(query, candidate, true)
}

func (a *Aligner) align(query, candidate []uint64, withBlocks bool) (Alignment, []MatchBlock) {
	if len(query) == 0 || len(candidate) == 0 {
		return Alignment{}, nil
	}

	m := poolMatrix.Get().(*swMatrix)
	defer poolMatrix.Put(m)

	m.fill(query, candidate, &a.params)
	if m.maxScore == 0 {
		return Alignment{}, nil
	}

	// every tied maximal cell is traced back,
	// the first one found is not necessarily the best one.
	var best, aln Alignment
	var bestBlocks, blocks []MatchBlock
	var iStart, jStart, matches int
	for k, c := range m.maxCells {
		iStart, jStart, matches, blocks = traceback(m, c.i, c.j, query, candidate, withBlocks)
		aln = Alignment{
			Score:      m.maxScore,
			QueryStart: iStart,
			QueryEnd:   c.i,
			TokenStart: jStart,
			TokenEnd:   c.j,
			Matches:    matches,
		}
		if k == 0 || CompareAlignments(&aln, &best) < 0 {
			best, bestBlocks = aln, blocks
		}
	}

	return best, bestBlocks
}

var defaultAligner = NewWithThreads(DefaultScoreParams, 0)

// Align aligns two sequences with DefaultScoreParams.
func Align(query, candidate []uint64) Alignment {
	return defaultAligner.Align(query, candidate)
}

// AlignWithBlocks aligns two sequences with DefaultScoreParams
// and returns the match blocks.
func AlignWithBlocks(query, candidate []uint64) (Alignment, []MatchBlock) {
	return defaultAligner.AlignWithBlocks(query, candidate)
}
