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

package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/pkg/profile"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/tokalign"
	"github.com/shenwei356/tokalign/iterator"
	"github.com/shenwei356/xopen"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

var version = "0.1.0"

func main() {
	usage := fmt.Sprintf(`
This command finds the best local alignments (Smith-Waterman) between query
and target sequences of tokens.

Input sequences are either FASTA/Q files, which are split into k-mer tokens,
or token list files (-t), where each line is an ID, a tab, and integer tokens
separated by spaces or commas.

Author: Wei Shen <shenwei356@gmail.com>

Version: v%s
Usage: %s [options] <query file> <target file> [<target file> ...]

Options/Flags:
`, version, filepath.Base(os.Args[0]))

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	k := flag.Int("k", 5, "k-mer size for tokenizing FASTA/Q sequences")
	canonical := flag.Bool("c", false, "using canonical k-mers as tokens")
	tokenLists := flag.Bool("t", false, "input files are token lists rather than FASTA/Q")
	matchScore := flag.Int("M", int(tokalign.DefaultScoreParams.Match), "match score")
	mismatchScore := flag.Int("X", int(tokalign.DefaultScoreParams.Mismatch), "mismatch score")
	gapScore := flag.Int("G", int(tokalign.DefaultScoreParams.Gap), "gap score")
	topK := flag.Int("n", 1, "number of best targets to output for each query")
	blocks := flag.Bool("b", false, "output match blocks")
	outFile := flag.String("o", "-", `output file, "-" for stdout`)
	threads := flag.Int("j", runtime.NumCPU(), "number of threads")
	quiet := flag.Bool("quiet", false, "do not show progress bar")
	pfCPU := flag.Bool("pprof-cpu", false, "pprofile CPU")
	pfMEM := flag.Bool("pprof-mem", false, "pprofile memory")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	if !*tokenLists && (*k < 1 || *k > 32) {
		checkError(fmt.Errorf("k should be in range of [1, 32]"))
	}
	if *topK < 1 {
		checkError(fmt.Errorf("n should be >= 1"))
	}
	for _, v := range []int{*matchScore, *mismatchScore, *gapScore} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			checkError(fmt.Errorf("score out of range: %d", v))
		}
	}
	if *threads <= 0 {
		*threads = runtime.NumCPU()
	}

	for _, file := range flag.Args() {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			checkError(fmt.Errorf("%s", err))
		}
	}

	// -----------------------------------------------

	// go tool pprof -http=:8080 cpu.pprof
	if *pfCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pfMEM {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	outfh, err := xopen.Wopen(*outFile)
	checkError(err)
	defer outfh.Close()

	read := func(file string) ([]*record, error) {
		if *tokenLists {
			return readTokenLists(file)
		}
		return readSeqs(file, *k, *canonical)
	}

	log.Printf("reading target sequences from %d files", len(flag.Args()[1:]))
	sTime := time.Now()

	targets := make([]*record, 0, 1024)
	for _, file := range flag.Args()[1:] {
		rs, err := read(file)
		checkError(err)
		targets = append(targets, rs...)
	}
	candidates := make([][]uint64, len(targets))
	for i, r := range targets {
		candidates[i] = r.tokens
	}

	log.Printf("finished reading %d target sequences in %s", len(targets), time.Since(sTime))

	queries, err := read(flag.Args()[0])
	checkError(err)

	// -----------------------------------------------

	sTime = time.Now()

	aligner := tokalign.NewWithThreads(tokalign.ScoreParams{
		Match:    int32(*matchScore),
		Mismatch: int32(*mismatchScore),
		Gap:      int32(*gapScore),
	}, *threads)

	// positions in output are in the coordinates of sequences, not k-mers
	kk := 1
	if !*tokenLists {
		kk = *k
	}

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if !*quiet {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(queries)),
			mpb.PrependDecorators(
				decor.Name("aligned queries: ", decor.WC{W: len("aligned queries: ")}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}

	fmt.Fprintf(outfh, "query\ttarget\tqstart\tqend\ttstart\ttend\tscore\tmatches")
	if *blocks {
		fmt.Fprintf(outfh, "\tblocks")
	}
	fmt.Fprintln(outfh)

	var nHits int
	var qs, qe, ts, te int
	var buf bytes.Buffer
	for _, q := range queries {
		for _, r := range aligner.TopK(q.tokens, candidates, *topK) {
			if r.Score == 0 { // no local alignment, the rest are zero too
				break
			}
			nHits++

			t := targets[r.Index]
			qs, qe = iterator.SeqRange(r.QueryStart, r.QueryEnd, kk)
			ts, te = iterator.SeqRange(r.TokenStart, r.TokenEnd, kk)
			fmt.Fprintf(outfh, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d",
				q.id, t.id, qs+1, qe, ts+1, te, r.Score, r.Matches)

			if *blocks {
				_, bs := aligner.AlignWithBlocks(q.tokens, t.tokens)
				buf.Reset()
				for i, b := range bs {
					if i > 0 {
						buf.WriteByte(',')
					}
					ts, te = iterator.SeqRange(b.Start, b.End, kk)
					fmt.Fprintf(&buf, "%d-%d", ts+1, te)
				}
				fmt.Fprintf(outfh, "\t%s", buf.Bytes())
			}
			fmt.Fprintln(outfh)
		}

		if bar != nil {
			bar.Increment()
		}
	}
	if pbs != nil {
		pbs.Wait()
	}

	log.Printf("finished aligning %d queries against %d targets in %s, hits: %d",
		len(queries), len(targets), time.Since(sTime), nHits)
}

// record is a named token sequence.
type record struct {
	id     []byte
	tokens []uint64
}

// readSeqs reads FASTA/Q records and splits them into k-mer tokens.
// Sequences shorter than k have no tokens.
func readSeqs(file string, k int, canonical bool) ([]*record, error) {
	seq.ValidateSeq = false

	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, err
	}
	defer fastxReader.Close()

	rs := make([]*record, 0, 128)
	var r *fastx.Record
	var tokens []uint64
	for {
		r, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		tokens, err = iterator.Tokenize(r.Seq.Seq, k, canonical)
		if err != nil {
			if !errors.Is(err, iterator.ErrShortSeq) && !errors.Is(err, iterator.ErrEmptySeq) {
				return nil, fmt.Errorf("%s: %s: %w", file, r.ID, err)
			}
			tokens = nil
		}

		rs = append(rs, &record{id: []byte(string(r.ID)), tokens: tokens})
	}
	return rs, nil
}

// readTokenLists reads lines of "ID<tab>tokens". Lines without a tab
// are named by their line numbers.
func readTokenLists(file string) ([]*record, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<30)

	rs := make([]*record, 0, 128)
	var line, id []byte
	var tokens []uint64
	var i, n int
	for scanner.Scan() {
		n++
		line = bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if i = bytes.IndexByte(line, '\t'); i >= 0 {
			id = []byte(string(line[:i]))
			line = line[i+1:]
		} else {
			id = []byte(strconv.Itoa(n))
		}

		tokens, err = iterator.ParseTokens(line)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", file, n, err)
		}
		rs = append(rs, &record{id: id, tokens: tokens})
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

func checkError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
