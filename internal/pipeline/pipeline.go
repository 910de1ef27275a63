package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/addonbuilder/internal/contributors"
	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/l10n"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/manifest"
	"git.home.luguber.info/inful/addonbuilder/internal/metrics"
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
	"git.home.luguber.info/inful/addonbuilder/internal/workspace"
)

// Upstream tree layout.
const (
	SourceAddonsDir    = "addons"
	SourceLocalesDir   = "addons-l10n"
	SourceLibrariesDir = "libraries"
)

// UpstreamMetaFile records the commit the output was built from.
const UpstreamMetaFile = "upstream-meta.json"

// Options configures a single run.
type Options struct {
	SourceDir       string // upstream checkout
	OutputDir       string
	Commit          string // short hash recorded in upstream-meta.json
	Addons          []string
	NewAddons       []string
	DefaultLocale   string
	LocaleAliases   map[string]string
	ContributorsURL string // empty disables translators.json
	HTTPClient      *http.Client
	Recorder        metrics.Recorder
}

// Result summarises a finished run.
type Result struct {
	RunID          string
	Commit         string
	Addons         []string
	Locales        []string // output names, in index order
	Libraries      []string // sorted
	Translators    int
	TranslatorsErr error // set when translators.json was not written
	Collisions     int   // message ids overwritten across addons
	StageDurations map[string]time.Duration
	Duration       time.Duration
}

// runState is threaded through the stages of one run.
type runState struct {
	opts      Options
	log       *slog.Logger
	recorder  metrics.Recorder
	ws        *workspace.Manager
	newAddons sets.Set[string]
	manifests map[string]*manifest.Manifest
	libraries sets.Set[string]
	result    *Result
}

func (rs *runState) source(elem ...string) string {
	return filepath.Join(append([]string{rs.opts.SourceDir}, elem...)...)
}

type translatorsOutcome struct {
	translators []json.RawMessage
	err         error
}

// Run mirrors opts.SourceDir into opts.OutputDir. The run stops at the first
// failing stage; output written up to that point is left in place.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()
	rs := &runState{
		opts:      opts,
		log:       runLogger(runID),
		recorder:  opts.Recorder,
		ws:        workspace.NewManager(opts.OutputDir),
		newAddons: sets.New(opts.NewAddons...),
		manifests: make(map[string]*manifest.Manifest, len(opts.Addons)),
		libraries: sets.New[string](),
		result: &Result{
			RunID:          runID,
			Commit:         opts.Commit,
			Addons:         opts.Addons,
			StageDurations: make(map[string]time.Duration),
		},
	}
	rs.log.Info("Starting run", logfields.Path(opts.SourceDir), logfields.Commit(opts.Commit), logfields.Count(len(opts.Addons)))

	fetchCtx, cancelFetch := context.WithCancel(ctx)
	defer cancelFetch()
	translators := startTranslatorFetch(fetchCtx, opts)

	stages := newStageList().
		Add(StageResetOutput, stageResetOutput).
		Add(StageAddons, stageAddons).
		Add(StageLocales, stageLocales).
		Add(StageIndexes, stageIndexes).
		Add(StageMetadata, stageMetadata).
		Build()

	if err := runStages(ctx, rs, stages); err != nil {
		cancelFetch()
		<-translators
		rs.finish(start, err)
		return rs.result, err
	}

	rs.awaitTranslators(translators)
	rs.finish(start, nil)
	return rs.result, nil
}

func validateOptions(opts *Options) error {
	if opts.SourceDir == "" {
		return derrors.ValidationFailed("source", "empty source directory")
	}
	if opts.OutputDir == "" {
		return derrors.ValidationFailed("output", "empty output directory")
	}
	if len(opts.Addons) == 0 {
		return derrors.ValidationFailed("addons", "no addons to mirror")
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	if opts.LocaleAliases == nil {
		opts.LocaleAliases = l10n.DefaultAliases()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return nil
}

// startTranslatorFetch begins downloading the contributor list. The returned
// channel yields exactly one outcome and is then closed.
func startTranslatorFetch(ctx context.Context, opts Options) <-chan translatorsOutcome {
	ch := make(chan translatorsOutcome, 1)
	if opts.ContributorsURL == "" {
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		list, err := contributors.FetchTranslators(ctx, opts.ContributorsURL, opts.HTTPClient)
		ch <- translatorsOutcome{translators: list, err: err}
	}()
	return ch
}

// awaitTranslators writes translators.json once the fetch has finished.
// Failures are logged and recorded, never returned.
func (rs *runState) awaitTranslators(ch <-chan translatorsOutcome) {
	out, ok := <-ch
	if !ok {
		rs.log.Debug("No contributors URL configured, skipping translators")
		return
	}
	err := out.err
	if err == nil {
		err = contributors.WriteTranslators(rs.ws.Subdir(workspace.GeneratedDir, contributors.TranslatorsFile), out.translators)
	}
	if err != nil {
		rs.result.TranslatorsErr = err
		rs.log.Warn("Translators list not written", logfields.URL(rs.opts.ContributorsURL), logfields.Error(err))
		return
	}
	rs.result.Translators = len(out.translators)
	rs.recorder.SetItems(metrics.ItemTranslators, len(out.translators))
	rs.log.Info("Wrote translators", logfields.Count(len(out.translators)))
}

func (rs *runState) finish(start time.Time, err error) {
	rs.result.Duration = time.Since(start)
	rs.recorder.ObserveRunDuration(rs.result.Duration)

	outcome := metrics.RunSuccess
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.RunCanceled
	case err != nil:
		outcome = metrics.RunFailed
	}
	rs.recorder.IncRunOutcome(outcome)

	// The caller reports err.
	if err != nil {
		rs.log.Debug("Run aborted", slog.String("outcome", string(outcome)), logfields.DurationMS(msec(rs.result.Duration)))
		return
	}
	rs.recorder.SetItems(metrics.ItemAddons, len(rs.result.Addons))
	rs.recorder.SetItems(metrics.ItemLocales, len(rs.result.Locales))
	rs.recorder.SetItems(metrics.ItemLibraries, len(rs.result.Libraries))
	rs.recorder.SetItems(metrics.ItemCollisions, rs.result.Collisions)
	rs.log.Info("Run completed",
		logfields.Commit(rs.result.Commit),
		slog.Int("addons", len(rs.result.Addons)),
		slog.Int("locales", len(rs.result.Locales)),
		slog.Int("libraries", len(rs.result.Libraries)),
		slog.Int("translators", rs.result.Translators),
		logfields.DurationMS(msec(rs.result.Duration)))
}
