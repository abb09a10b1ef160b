package sumstats

import (
	"fmt"
	"io"

	"github.com/pvtodorov/ldsc"
)

// MungeOptions is the full configuration of a munging run.
type MungeOptions struct {
	Sumstats string
	Out      string

	N    float64
	NCas float64
	NCon float64

	InfoMin float64
	MafMin  float64
	NMin    float64

	Daner        bool
	NoAlleles    bool
	NoFilterN    bool
	MergeAlleles string

	ChunkSize int

	Overrides Overrides
	Signed    *SignedStat
}

// Munge converts a raw summary statistics file into the chi-square
// format LD Score regression consumes, writing <out>.chisq.gz and
// returning the metadata report. Input is streamed in chunks so that
// files dominated by SNPs that will be filtered out never have to fit
// in memory at once.
func Munge(opts MungeOptions, lg *ldsc.Logger) (Metadata, error) {
	var meta Metadata

	if opts.Sumstats == "" || opts.Out == "" {
		return meta, fmt.Errorf("--sumstats and --out are required")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 5e6
	}

	r, err := OpenReader(opts.Sumstats)
	if err != nil {
		return meta, err
	}
	defer r.Close()

	cm, err := ResolveColumns(r.Headers(), ResolveOptions{
		Overrides:            opts.Overrides,
		Signed:               opts.Signed,
		Daner:                opts.Daner,
		NoAlleles:            opts.NoAlleles,
		HaveNFlag:            opts.N > 0,
		HaveCaseControlFlags: opts.NCas > 0 && opts.NCon > 0,
	}, lg)
	if err != nil {
		return meta, err
	}

	var merge *MergeList
	if opts.MergeAlleles != "" {
		if merge, err = ReadMergeList(opts.MergeAlleles, lg); err != nil {
			return meta, err
		}
	}

	filt := NewFilterer(cm, opts.InfoMin, opts.MafMin)
	lg.Printf("Reading sumstats from %s into memory %d SNPs at a time.", opts.Sumstats, opts.ChunkSize)

	var recs []Record
	for chunk := 1; ; chunk++ {
		batch, readErr := r.ReadChunk(cm, opts.ChunkSize)
		if readErr != nil && readErr != io.EOF {
			return meta, readErr
		}

		if merge != nil {
			kept := batch[:0]
			for _, rec := range batch {
				if merge.Contains(rec.SNP) {
					kept = append(kept, rec)
				}
			}
			batch = kept
		}

		batch, err = filt.Apply(batch, lg, false)
		if err != nil {
			return meta, err
		}
		recs = append(recs, batch...)

		if len(batch) > 0 || readErr != io.EOF {
			lg.Printf("Processed chunk %d; %d SNPs remain so far.", chunk, len(recs))
		}
		if readErr == io.EOF {
			break
		}
	}

	filt.Summary(lg, len(recs))
	if len(recs) == 0 {
		return meta, fmt.Errorf("no SNPs remain")
	}

	if recs, err = ResolveSampleSize(recs, cm, SampleSizeOptions{
		N:     opts.N,
		NCas:  opts.NCas,
		NCon:  opts.NCon,
		Daner: opts.Daner,
	}, lg); err != nil {
		return meta, err
	}

	// Sample sizes fixed by flag are uniform; filtering on them would be
	// meaningless.
	if !opts.NoFilterN && opts.N == 0 && opts.NCas == 0 && !opts.Daner {
		if recs, err = FilterLowN(recs, opts.NMin, lg); err != nil {
			return meta, err
		}
	}

	ConvertPToChiSq(recs)

	if !opts.NoAlleles {
		if recs, err = FilterACGT(recs, lg); err != nil {
			return meta, err
		}
		if recs, err = FilterStrandAmbiguous(recs, lg); err != nil {
			return meta, err
		}
		recs = OrientAlleles(recs, cm, lg)

		if merge != nil {
			if recs, err = ApplyMergeAlleles(recs, merge, lg); err != nil {
				return meta, err
			}
		}
	}

	if err := WriteChiSq(opts.Out+".chisq.gz", recs, !opts.NoAlleles, lg); err != nil {
		return meta, err
	}

	if meta, err = Summarize(recs); err != nil {
		return meta, err
	}
	meta.Report(lg)

	return meta, nil
}
