package chrono

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/colorfulnotion/chronospatial/common"
	"github.com/colorfulnotion/chronospatial/log"
	"github.com/colorfulnotion/chronospatial/storage"
)

const (
	initialMask  = uint64(0x3F) // the last two output digits
	ctxCheckMask = 1<<16 - 1
)

// QuineOptions tunes FindQuine.
type QuineOptions struct {
	MaxIterations uint64              // 0 = unlimited
	Cache         *storage.QuineCache // optional
}

// Result reports a finished search. Seed is 0 whenever Found is false.
type Result struct {
	Seed       uint64
	Found      bool
	Iterations uint64
	Elapsed    time.Duration
	Cached     bool
	Limited    bool // stopped at MaxIterations
}

// FindQuine searches for an A that makes exec output code itself.
func FindQuine(exec chronotypes.Executor, code []byte, opts QuineOptions) (Result, error) {
	return FindQuineContext(context.Background(), exec, code, opts)
}

// FindQuineContext is FindQuine with cancellation.
//
// The search grows the answer three bits at a time. It starts by matching the
// last two output digits (mask 0x3F) from A=1. Whenever the masked bits of
// the output agree with the target, the mask widens by one digit and A shifts
// left by three; otherwise A is incremented. It gives up when the first digit
// pair cannot be matched, when the mask already spans the target and A has
// run past it, when shifting A would overflow, or after MaxIterations. A
// CheckedExecutor failure ends the search with that error.
func FindQuineContext(ctx context.Context, exec chronotypes.Executor, code []byte, opts QuineOptions) (Result, error) {
	if len(code) > chronotypes.MaxDigits {
		return Result{}, fmt.Errorf("program of %d bytes: %w", len(code), chronoerrors.ErrQProgramTooLong)
	}
	start := time.Now()

	if opts.Cache != nil {
		e, ok, err := opts.Cache.Get(code)
		if err != nil {
			log.Warn(log.CacheMonitoring, "quine cache read failed", "err", err)
		} else if ok && reusable(e, opts.MaxIterations) {
			return Result{Seed: e.Seed, Found: e.Found, Iterations: e.Iterations, Elapsed: time.Since(start), Cached: true, Limited: e.Limited}, nil
		}
	}

	run := func(a uint64) (uint64, error) { return exec.Execute(a, 0, 0), nil }
	if ce, ok := exec.(chronotypes.CheckedExecutor); ok {
		run = func(a uint64) (uint64, error) { return ce.TryExecute(a, 0, 0) }
	}

	target := chronotypes.Encode3Bit(code)
	mask, trial := initialMask, uint64(1)
	var res Result
	for {
		res.Iterations++
		out, err := run(trial)
		if err != nil {
			return Result{}, fmt.Errorf("A=%d: %w", trial, err)
		}
		if out == target {
			res.Seed, res.Found = trial, true
			break
		}
		if out&mask == target&mask {
			if trial > math.MaxUint64>>chronotypes.DigitBits {
				log.Debug(log.QuineMonitoring, "seed would overflow", "trial", trial)
				break
			}
			mask = mask<<chronotypes.DigitBits | chronotypes.DigitMask
			trial <<= chronotypes.DigitBits
			log.Trace(log.QuineMonitoring, "descend", "mask", fmt.Sprintf("%#x", mask), "trial", trial)
		} else {
			trial++
		}
		if mask == initialMask && trial > mask {
			break
		}
		if mask >= target && trial > mask {
			break
		}
		if opts.MaxIterations != 0 && res.Iterations >= opts.MaxIterations {
			log.Debug(log.QuineMonitoring, "iteration limit", "limit", opts.MaxIterations)
			res.Limited = true
			break
		}
		if res.Iterations&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
	}
	res.Elapsed = time.Since(start)
	log.Info(log.QuineMonitoring, "quine search done", "found", res.Found, "seed", res.Seed, "iterations", res.Iterations, "elapsed_us", common.Elapsed(start))

	if opts.Cache != nil {
		err := opts.Cache.Put(&storage.QuineEntry{
			Program:    code,
			Seed:       res.Seed,
			Found:      res.Found,
			Iterations: res.Iterations,
			ElapsedUS:  common.Elapsed(start),
			Limited:    res.Limited,
		})
		if err != nil {
			log.Warn(log.CacheMonitoring, "quine cache write failed", "err", err)
		}
	}
	return res, nil
}

// reusable reports whether a cached entry answers a search with the given
// budget. A search cut short by its budget only answers budgets no larger.
func reusable(e *storage.QuineEntry, maxIterations uint64) bool {
	if e.Found || !e.Limited {
		return true
	}
	return maxIterations != 0 && maxIterations <= e.Iterations
}
