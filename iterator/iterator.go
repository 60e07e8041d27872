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

package iterator

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/shenwei356/kmers"
)

// ErrInvalidK means k < 1 or K > 32
var ErrInvalidK = fmt.Errorf("k-mer iterator: invalid k-mer size (1 <= k <= 32)")

// ErrEmptySeq sequence is empty.
var ErrEmptySeq = fmt.Errorf("k-mer iterator: empty sequence")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = fmt.Errorf("k-mer iterator: sequence too short")

// ErrIllegalBase means that bases beyond IUPAC symbols are detected.
var ErrIllegalBase = errors.New("k-mer iterator: illegal base")

var poolIterator = &sync.Pool{New: func() interface{} {
	return &Iterator{}
}}

// Iterator is a nucleotide k-mer iterator, which turns a sequence
// into k-mer codes, i.e., the tokens for alignment.
type Iterator struct {
	s         []byte
	k         int
	canonical bool

	finished bool
	idx      int

	end       int
	first     bool
	kmer      []byte
	codeBase  uint64
	preCode   uint64
	preCodeRC uint64

	mask1 uint64 // (1<<((k-1)*2))-1
	mask2 uint   // (k-1)*2
}

// NewKmerIterator returns a k-mer code iterator.
// With canonical, the smaller code of a k-mer and its reverse complement
// is returned.
func NewKmerIterator(s []byte, k int, canonical bool) (*Iterator, error) {
	if k < 1 || k > 32 {
		return nil, ErrInvalidK
	}
	if len(s) == 0 {
		return nil, ErrEmptySeq
	}
	if len(s) < k {
		return nil, ErrShortSeq
	}

	iter := poolIterator.Get().(*Iterator)
	iter.s = s
	iter.k = k
	iter.canonical = canonical
	iter.finished = false
	iter.idx = 0

	iter.end = len(s) - k + 1
	iter.mask1 = (1 << (uint(k-1) << 1)) - 1
	iter.mask2 = uint(k-1) << 1

	iter.first = true

	return iter, nil
}

// Next returns the code of next k-mer.
func (iter *Iterator) Next() (code uint64, ok bool, err error) {
	if iter.finished {
		return 0, false, nil
	}

	if iter.idx == iter.end { // recycle the Iterator
		iter.finished = true
		iter.s = nil
		poolIterator.Put(iter)
		return 0, false, nil
	}

	iter.kmer = iter.s[iter.idx : iter.idx+iter.k]

	var codeRC uint64
	if !iter.first {
		iter.codeBase = base2bit[iter.kmer[iter.k-1]]
		if iter.codeBase == 4 {
			return 0, false, fmt.Errorf("encode %s: %w", iter.kmer, ErrIllegalBase)
		}

		// compute code from previous one
		code = (iter.preCode&iter.mask1)<<2 | iter.codeBase

		// compute code of revcomp kmer from previous one
		codeRC = (iter.codeBase^3)<<(iter.mask2) | (iter.preCodeRC >> 2)
	} else {
		code, err = kmers.Encode(iter.kmer)
		if err != nil {
			return 0, false, fmt.Errorf("encode %s: %w", iter.kmer, err)
		}
		codeRC = kmers.MustRevComp(code, iter.k)
		iter.first = false
	}

	iter.preCode = code
	iter.preCodeRC = codeRC
	iter.idx++

	if iter.canonical && codeRC < code {
		return codeRC, true, nil
	}
	return code, true, nil
}

// Index returns current 0-baesd index.
func (iter *Iterator) Index() int {
	return iter.idx - 1
}

// Tokenize returns the k-mer codes of a sequence.
// The i-th token covers s[i:i+k].
func Tokenize(s []byte, k int, canonical bool) ([]uint64, error) {
	iter, err := NewKmerIterator(s, k, canonical)
	if err != nil {
		return nil, err
	}

	tokens := make([]uint64, 0, len(s)-k+1)
	var code uint64
	var ok bool
	for {
		code, ok, err = iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		tokens = append(tokens, code)
	}
	return tokens, nil
}

// SeqRange converts a half-open range of k-mer tokens to the
// half-open range of covered positions in the sequence.
func SeqRange(start, end, k int) (int, int) {
	if end <= start {
		return start, start
	}
	return start, end + k - 1
}

// ParseTokens parses a line of integer tokens separated by spaces,
// tabs or commas.
func ParseTokens(line []byte) ([]uint64, error) {
	fields := bytes.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\r' || r == '\n'
	})

	tokens := make([]uint64, len(fields))
	var err error
	for i, f := range fields {
		tokens[i], err = strconv.ParseUint(string(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid token %q: %w", f, err)
		}
	}
	return tokens, nil
}

var base2bit = [256]uint64{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 1, 1, 0, 4, 4, 2, 0, 4, 4, 2, 4, 0, 0, 4,
	4, 4, 0, 1, 3, 3, 0, 0, 4, 1, 4, 4, 4, 4, 4, 4,
	4, 0, 1, 1, 0, 4, 4, 2, 0, 4, 4, 2, 4, 0, 0, 4,
	4, 4, 0, 1, 3, 3, 0, 0, 4, 1, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}
