package driver

import (
	"context"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"markcheck/internal/diag"
	"markcheck/internal/engine"
	"markcheck/internal/markdown"
	"markcheck/internal/observ"
	"markcheck/internal/score"
	"markcheck/internal/source"
)

// CheckOptions configures a multi-file check.
type CheckOptions struct {
	Engine     engine.Options
	Jobs       int      // 0 = GOMAXPROCS
	Extensions []string // used when walking directories
	Cache      *DiskCache
	Progress   ProgressSink
}

// CheckResult содержит результат проверки одного файла
type CheckResult struct {
	Path        string
	FileID      source.FileID
	Rendered    bool // страница была в markdown
	Diagnostics []diag.Diagnostic
	Metrics     score.Metrics
	Timings     observ.Report
	Cached      bool
	Err         error // ошибка чтения или рендера; диагностик тогда нет
}

// HasErrors reports whether the page failed to load or has error diagnostics.
func (r CheckResult) HasErrors() bool {
	if r.Err != nil {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// CheckPaths checks every page source under paths in parallel. Results keep
// the sorted file order regardless of which worker finished first. The
// returned FileSet resolves the spans of every diagnostic.
func CheckPaths(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	files, err := collectFiles(ctx, paths, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: загружаем последовательно, анализируем параллельно
	fileSet := source.NewFileSet()
	results := make([]CheckResult, len(files))
	for i, path := range files {
		results[i] = loadOne(fileSet, path, opts.Progress)
	}

	optsKey, keyErr := OptionsDigest(opts.Engine)
	cache := opts.Cache
	if keyErr != nil {
		cache = nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	eng := engine.New(opts.Engine)

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analyzeOne(eng, fileSet.Get(results[i].FileID), &results[i], cache, optsKey, opts.Progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	emit(opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone})
	return fileSet, results, nil
}

func loadOne(fileSet *source.FileSet, path string, sink ProgressSink) CheckResult {
	res := CheckResult{Path: path}
	begin := time.Now()
	emit(sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})

	if !markdown.IsMarkdownPath(path) {
		id, err := fileSet.Load(path)
		if err != nil {
			res.Err = err
			emit(sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(begin)})
			return res
		}
		res.FileID = id
		return res
	}

	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		emit(sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(begin)})
		return res
	}
	emit(sink, Event{File: path, Stage: StageRender, Status: StatusWorking})
	rendered, err := markdown.Render(raw)
	if err != nil {
		res.Err = err
		emit(sink, Event{File: path, Stage: StageRender, Status: StatusError, Err: err, Elapsed: time.Since(begin)})
		return res
	}
	res.FileID = fileSet.Add(path, rendered, source.FileRendered)
	res.Rendered = true
	return res
}

func analyzeOne(eng *engine.Engine, f *source.File, res *CheckResult, cache *DiskCache, optsKey Digest, sink ProgressSink) {
	begin := time.Now()
	emit(sink, Event{File: res.Path, Stage: StageAnalyze, Status: StatusWorking})

	key := CacheKey(f.Hash, optsKey)
	if cache != nil {
		var payload DiskPayload
		// ошибки чтения кэша считаем промахом
		if ok, err := cache.Get(key, &payload); err == nil && ok {
			res.Diagnostics = payload.restore(f.ID)
			res.Metrics = payload.Metrics
			res.Cached = true
			emit(sink, Event{File: res.Path, Stage: StageAnalyze, Status: StatusDone, Elapsed: time.Since(begin), Cached: true})
			return
		}
	}

	out := eng.AnalyzeFile(f)
	res.Diagnostics = out.Diagnostics
	res.Metrics = out.Metrics
	res.Timings = out.Timings

	if cache != nil {
		// кэш best-effort: неудачная запись не влияет на результат
		_ = cache.Put(key, payloadFor(res.Path, res.Diagnostics, res.Metrics))
	}
	emit(sink, Event{File: res.Path, Stage: StageAnalyze, Status: StatusDone, Elapsed: time.Since(begin)})
}
