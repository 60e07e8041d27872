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

// CompareAlignments orders two alignments of the same query, returning
// -1 if a ranks before b, 1 if after, and 0 if they are identical
// in all compared fields.
//
// Priority: higher score, smaller token start, longer span in the candidate,
// smaller query start, smaller token end, smaller query end.
func CompareAlignments(a, b *Alignment) int {
	if c := compareHead(a, b); c != 0 {
		return c
	}
	return compareTail(a, b)
}

// CompareCandidates is CompareAlignments with the candidate index inserted
// after the query start, so results of a batch have a total order.
func CompareCandidates(a, b *CandidateAlignment) int {
	if c := compareHead(&a.Alignment, &b.Alignment); c != 0 {
		return c
	}
	if a.Index != b.Index {
		return cmpInt(a.Index, b.Index)
	}
	return compareTail(&a.Alignment, &b.Alignment)
}

func compareHead(a, b *Alignment) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if a.TokenStart != b.TokenStart {
		return cmpInt(a.TokenStart, b.TokenStart)
	}
	if sa, sb := a.TokenEnd-a.TokenStart, b.TokenEnd-b.TokenStart; sa != sb {
		return cmpInt(sb, sa) // longer first
	}
	if a.QueryStart != b.QueryStart {
		return cmpInt(a.QueryStart, b.QueryStart)
	}
	return 0
}

func compareTail(a, b *Alignment) int {
	if a.TokenEnd != b.TokenEnd {
		return cmpInt(a.TokenEnd, b.TokenEnd)
	}
	return cmpInt(a.QueryEnd, b.QueryEnd)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// CandidateAlignments is a list of batch results, sortable by
// CompareCandidates.
type CandidateAlignments []CandidateAlignment

func (s CandidateAlignments) Len() int      { return len(s) }
func (s CandidateAlignments) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s CandidateAlignments) Less(i, j int) bool {
	return CompareCandidates(&s[i], &s[j]) < 0
}
