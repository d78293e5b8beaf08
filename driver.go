package docpost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-docpost/internal/fileutil"
	"github.com/alnah/go-docpost/internal/metrics"
)

// FileTask is one page to process.
type FileTask struct {
	InputPath  string
	OutputPath string
}

// TaskResult is the outcome of one FileTask.
type TaskResult struct {
	Task        FileTask
	Duration    time.Duration
	Diagnostics []Diagnostic
	Stats       Stats
	Err         *TaskError // nil on success
}

// Policy decides what happens after a task fails.
type Policy int

const (
	// PolicyFailFast cancels every task that has not started yet.
	PolicyFailFast Policy = iota
	// PolicyContinue runs every task and collects all failures.
	PolicyContinue
)

func (p Policy) String() string {
	switch p {
	case PolicyFailFast:
		return "fail-fast"
	case PolicyContinue:
		return "continue"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "fail-fast" or "continue". Empty means fail-fast.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return PolicyFailFast, nil
	case "continue", "continue-on-error":
		return PolicyContinue, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be fail-fast or continue)", ErrInvalidPolicy, s)
	}
}

// RunOptions configures Run.
type RunOptions struct {
	// Workers <= 1 runs tasks one after another in input order.
	Workers int
	Policy  Policy
}

// Run processes every task with proc and returns one result per task, in
// task order. The error joins the *TaskError of every failed task, plus
// ctx.Err() when ctx was canceled. Tasks canceled by a fail-fast stop are
// reported in the results only.
func Run(ctx context.Context, proc *Processor, tasks []FileTask, opts RunOptions) ([]TaskResult, error) {
	results := make([]TaskResult, len(tasks))
	if len(tasks) == 0 {
		return results, ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := func(i int) {
		if err := runCtx.Err(); err != nil {
			results[i] = canceledResult(tasks[i], err)
			proc.cfg.recorder.IncPage(metrics.ResultCanceled)
			return
		}
		results[i] = proc.runTask(runCtx, tasks[i])
		if results[i].Err != nil && results[i].Err.Kind != KindCanceled && opts.Policy == PolicyFailFast {
			cancel()
		}
	}

	workers := opts.Workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	if workers <= 1 {
		for i := range tasks {
			handle(i)
		}
	} else {
		jobs := make(chan int, len(tasks))
		for i := range tasks {
			jobs <- i
		}
		close(jobs)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					handle(i)
				}
			}()
		}
		wg.Wait()
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil && r.Err.Kind != KindCanceled {
			errs = append(errs, r.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}

func canceledResult(task FileTask, err error) TaskResult {
	return TaskResult{
		Task: task,
		Err:  &TaskError{Path: task.InputPath, Kind: KindCanceled, Err: err},
	}
}

// runTask reads, processes and writes one page.
func (p *Processor) runTask(ctx context.Context, task FileTask) TaskResult {
	start := time.Now()
	res := TaskResult{Task: task}

	err := func() error {
		src, err := os.ReadFile(task.InputPath) // #nosec G304 -- paths come from discovery
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadInput, err)
		}

		out, err := p.Process(ctx, src)
		if out != nil {
			res.Diagnostics = out.Diagnostics
			res.Stats = out.Stats
		}
		if err != nil {
			return err
		}

		// A page processed after cancellation is not written.
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fileutil.EnsureDir(filepath.Dir(task.OutputPath)); err != nil {
			return fmt.Errorf("%w: %v", ErrCreateDir, err)
		}
		if err := fileutil.WriteFileAtomic(task.OutputPath, out.HTML, fileutil.FilePerm); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}()

	res.Duration = time.Since(start)
	p.cfg.recorder.ObservePageDuration(res.Duration)

	log := p.logger().With("path", task.InputPath)
	for _, d := range res.Diagnostics {
		log.Warnw("markup repaired", "line", d.Line, "problem", d.Message)
	}

	if err != nil {
		res.Err = &TaskError{Path: task.InputPath, Kind: classify(err), Err: err}
		if res.Err.Kind == KindCanceled {
			p.cfg.recorder.IncPage(metrics.ResultCanceled)
			log.Debugw("page canceled", "duration", res.Duration)
		} else {
			p.cfg.recorder.IncPage(metrics.ResultFailed)
			log.Errorw("page failed", "kind", res.Err.Kind, "err", err, "duration", res.Duration)
		}
		return res
	}

	p.cfg.recorder.IncPage(metrics.ResultSuccess)
	log.Infow("page processed",
		"output", task.OutputPath,
		"duration", res.Duration,
		"diagnostics", len(res.Diagnostics),
	)
	return res
}
