package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"stache/internal/diag"
	"stache/internal/lexer"
	"stache/internal/source"
	"stache/internal/token"
)

// CheckOptions configures a directory check.
type CheckOptions struct {
	// Ext filters template files; defaults to ".mustache".
	Ext string
	// Delims is the initial pair for every template. Each file still gets a
	// fresh scanner, so delimiter changes never leak across templates.
	Delims token.Delims
	// MaxDiagnostics caps the per-file bag.
	MaxDiagnostics int
	// Jobs bounds scan parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Progress receives per-file events; may be nil.
	Progress Sink
}

// CheckResult is the outcome for one template.
type CheckResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// ListTemplates returns the sorted list of template files under dir.
func ListTemplates(dir, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deterministic order regardless of walk quirks.
	sort.Strings(files)
	return files, nil
}

// CheckDir scans every template under dir in parallel. Results come back in
// path order; scan failures land in each file's bag rather than aborting the
// whole run. Cancellation is checked between files; a single scan stays
// synchronous.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	ext := opts.Ext
	if ext == "" {
		ext = ".mustache"
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}

	files, err := ListTemplates(dir, ext)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	for _, path := range files {
		publish(opts.Progress, Event{Path: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet mutation is not goroutine-safe: load everything up front.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		publish(opts.Progress, Event{Path: path, Stage: StageLoad, Status: StatusWorking})
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			publish(opts.Progress, Event{Path: path, Stage: StageLoad, Status: StatusError})
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index; no mutex needed for results.
	// The FileSet is read-only past this point.
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)

			if loadErr, hadError := loadErrors[path]; hadError {
				// No file was loaded, so the span must not point at one.
				primary := source.Span{File: source.NoFileID}
				bag.Add(diag.NewError(diag.IOLoadFileError, primary, loadErr.Error()))
				results[i] = CheckResult{Path: path, Bag: bag}
				return nil
			}

			publish(opts.Progress, Event{Path: path, Stage: StageScan, Status: StatusWorking})

			file := fileSet.Get(fileIDs[path])

			adapter := &lexer.ReporterAdapter{Bag: bag}
			sc := lexer.New(file, lexer.Options{
				Reporter: adapter.Reporter(),
				Delims:   opts.Delims,
			})

			var tokens []token.Token
			// The *ScanError is mirrored into the bag by the reporter; the
			// check keeps going so every file gets reported.
			_ = sc.Scan(func(tok token.Token) bool {
				tokens = append(tokens, tok)
				return true
			})

			results[i] = CheckResult{
				Path:   path,
				FileID: file.ID,
				Tokens: tokens,
				Bag:    bag,
			}

			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			publish(opts.Progress, Event{Path: path, Stage: StageScan, Status: status})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}
