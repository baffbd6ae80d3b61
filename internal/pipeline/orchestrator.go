package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dailies/internal/config"
	"dailies/internal/fileutil"
	"dailies/internal/ingest"
	"dailies/internal/logging"
	"dailies/internal/markers"
	"dailies/internal/media"
	"dailies/internal/projects"
	"dailies/internal/roughcut"
	"dailies/internal/segmenting"
	"dailies/internal/services"
	"dailies/internal/services/ffmpeg"
	"dailies/internal/services/resolve"
	"dailies/internal/services/whisper"
	"dailies/internal/session"
	"dailies/internal/transcript"
)

type projectResolver interface {
	Resolve(ctx context.Context, sourcePath, explicitCodeword string) (*projects.Project, error)
}

type mediaIngestor interface {
	FromPool(ctx context.Context, sourceDir string, project *projects.Project, camera config.Camera) (ingest.Summary, error)
	FromDevice(ctx context.Context, cardRoot string, project *projects.Project, camera config.Camera) (ingest.Summary, error)
}

type runRecorder interface {
	RecordRun(ctx context.Context, rec session.RunRecord) error
}

// Orchestrator sequences the import phases over one source, aggregates
// their outcomes, and enforces the failure policy: resolution and ingest
// failures abort the run, everything after degrades to warnings.
type Orchestrator struct {
	cfg    *config.Config
	logger *slog.Logger

	resolver    projectResolver
	ingestor    mediaIngestor
	transcoder  ffmpeg.Transcoder
	prober      ffmpeg.Prober
	transcriber whisper.Transcriber
	detector    markers.Detector
	bridge      resolve.Bridge
	recorder    runRecorder

	detectCUDA func(ctx context.Context) bool
	lockPath   string
}

// Option overrides one orchestrator collaborator, mostly for tests.
type Option func(*Orchestrator)

func WithResolver(r projectResolver) Option      { return func(o *Orchestrator) { o.resolver = r } }
func WithIngestor(i mediaIngestor) Option        { return func(o *Orchestrator) { o.ingestor = i } }
func WithTranscoder(t ffmpeg.Transcoder) Option  { return func(o *Orchestrator) { o.transcoder = t } }
func WithProber(p ffmpeg.Prober) Option          { return func(o *Orchestrator) { o.prober = p } }
func WithTranscriber(t whisper.Transcriber) Option {
	return func(o *Orchestrator) { o.transcriber = t }
}
func WithDetector(d markers.Detector) Option { return func(o *Orchestrator) { o.detector = d } }
func WithBridge(b resolve.Bridge) Option     { return func(o *Orchestrator) { o.bridge = b } }
func WithRecorder(r runRecorder) Option      { return func(o *Orchestrator) { o.recorder = r } }
func WithLockPath(path string) Option        { return func(o *Orchestrator) { o.lockPath = path } }

// WithAccelDetector overrides accelerator probing.
func WithAccelDetector(fn func(ctx context.Context) bool) Option {
	return func(o *Orchestrator) { o.detectCUDA = fn }
}

// New wires an orchestrator from configuration. The store doubles as the
// resolver's session state and the run-history recorder; it may be nil in
// tests that override both.
func New(cfg *config.Config, logger *slog.Logger, store *session.Store, opts ...Option) (*Orchestrator, error) {
	detector, err := markers.NewKeywordDetector(cfg.Markers)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		transcoder: ffmpeg.NewCLI(cfg.Transcode),
		prober:     ffmpeg.NewProber(cfg.Transcode),
		detector:   detector,
		bridge:     resolve.NewClient(cfg.Editor),
		lockPath:   filepath.Join(filepath.Dir(cfg.Paths.SessionDB), "dailies.lock"),
	}
	o.ingestor = ingest.New(logger)

	var state projects.SessionState
	if store != nil {
		state = store
		o.recorder = store
	}
	o.resolver = projects.NewResolver(cfg.Paths.ProjectsRoot, state)

	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes one import job and returns its result. Run never returns an
// error: every failure is recorded inside the result.
func (o *Orchestrator) Run(ctx context.Context, job Job) *Result {
	result := &Result{RunID: uuid.NewString(), StartedAt: time.Now()}
	ctx = services.WithRunID(ctx, result.RunID)
	log := logging.WithContext(ctx, o.logger)

	log.Info("import started",
		logging.String("source", job.SourcePath),
		logging.Bool("from_device", job.FromDevice))

	defer func() {
		result.FinishedAt = time.Now()
		if o.recorder != nil {
			if err := o.recorder.RecordRun(context.WithoutCancel(ctx), result.record(job.SourcePath)); err != nil {
				log.Warn("run history not recorded", logging.Error(err))
			}
		}
		log.Info("import finished",
			logging.Bool("success", result.Success()),
			logging.Int("imported", result.Imported),
			logging.Int("warnings", len(result.Warnings)),
			logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	}()

	lock := flock.New(o.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		result.failf("acquire run lock %s: %v", o.lockPath, err)
		log.Error("run lock unavailable", logging.Error(err))
		return result
	}
	if !locked {
		result.failf("another import is already running (lock %s)", o.lockPath)
		return result
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := os.Stat(job.SourcePath); err != nil {
		result.failf("source path %s: %v", job.SourcePath, err)
		log.Error("source missing", logging.Error(err))
		return result
	}

	camera := config.PoolCamera()
	if job.FromDevice {
		camera, err = media.ResolveCamera(job.SourcePath, o.cfg.Cameras)
		if err != nil {
			result.failf("camera profile: %v", services.Message(err))
			log.Error("camera undetectable", logging.Error(err))
			return result
		}
	}

	project, err := o.resolver.Resolve(ctx, job.SourcePath, job.Codeword)
	if err != nil {
		result.failf("resolve project: %v", services.Message(err))
		log.Error("project resolution failed", logging.Error(err))
		return result
	}
	result.ProjectName = project.Name
	result.ProjectPath = project.Root
	ctx = services.WithProject(ctx, project.Name)
	log = logging.WithContext(ctx, o.logger)

	// Phase 1: ingest, then normalize and proxy concurrently.
	if job.Phases.Ingest {
		o.phaseStart(ctx, "ingest")
		var summary ingest.Summary
		if job.FromDevice {
			summary, err = o.ingestor.FromDevice(ctx, job.SourcePath, project, camera)
		} else {
			summary, err = o.ingestor.FromPool(ctx, job.SourcePath, project, camera)
		}
		if err != nil {
			result.failf("ingest: %v", services.Message(err))
			o.phaseFailed(ctx, "ingest", err)
			return result
		}
		result.Imported = summary.Imported
		result.Skipped = summary.Skipped
		result.warnAll(summary.Warnings)
		if summary.Imported == 0 && summary.Skipped == 0 {
			result.warnf("ingest: no clips found at %s", job.SourcePath)
		}
		o.phaseDone(ctx, "ingest")
	}

	assets, err := o.discoverProject(project)
	if err != nil {
		result.warnf("discover project media: %v", err)
		log.Warn("remaining phases skipped, project media unreadable",
			logging.String(logging.FieldEventType, "phases_skipped"),
			logging.Error(err))
		return result
	}

	if job.Phases.Normalize || job.Phases.Proxy {
		var (
			wg                          sync.WaitGroup
			normWarnings, proxyWarnings []string
		)
		if job.Phases.Normalize {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result.Normalized, normWarnings = o.normalizeAll(services.WithPhase(ctx, "normalize"), project, assets)
			}()
		}
		if job.Phases.Proxy {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result.Proxied, proxyWarnings = o.proxyAll(services.WithPhase(ctx, "proxy"), project, assets)
			}()
		}
		wg.Wait()
		result.warnAll(normWarnings)
		result.warnAll(proxyWarnings)
	}

	// Phase 2: transcribe, then markers and segments.
	if job.Phases.Transcribe {
		count, warnings := o.transcribeAll(services.WithPhase(ctx, "transcribe"), project, assets, job.Phases.Subtitles)
		result.Transcribed = count
		result.warnAll(warnings)
	}
	if job.Phases.DetectMarkers {
		o.segmentAll(services.WithPhase(ctx, "segment"), project, assets, job.Phases.CutSegments, result)
	}

	// Phase 3: on-demand finishing.
	if job.Phases.RoughCut {
		assembler := roughcut.New(o.cfg.RoughCut, o.logger, o.detector, o.prober)
		created, err := assembler.Assemble(services.WithPhase(ctx, "roughcut"), project)
		if err != nil {
			result.warnf("rough cut: %v", services.Message(err))
			o.phaseFailed(ctx, "roughcut", err)
		}
		result.RoughCutCreated = created
	}
	if job.Phases.BindEditor {
		o.bindEditor(services.WithPhase(ctx, "editor"), project, result)
	}

	return result
}

// discoverProject lists every clip already under the project's original
// media area, reattaching camera profiles from the per-camera directory
// names. Later phases work from this set, so a re-run processes previously
// imported footage even when today's ingest added nothing.
func (o *Orchestrator) discoverProject(project *projects.Project) ([]media.Asset, error) {
	root := filepath.Join(project.Root, "Media", "Original")
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var assets []media.Asset
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		camera := o.cameraByID(entry.Name())
		found, err := media.Discover(filepath.Join(root, entry.Name()), camera)
		if err != nil {
			return nil, err
		}
		assets = append(assets, found...)
	}
	return assets, nil
}

func (o *Orchestrator) cameraByID(id string) config.Camera {
	for _, cam := range o.cfg.Cameras {
		if cam.ID == id {
			return cam
		}
	}
	cam := config.PoolCamera()
	cam.ID = id
	return cam
}

func (o *Orchestrator) normalizeAll(ctx context.Context, project *projects.Project, assets []media.Asset) (int, []string) {
	pending := make([]media.Asset, 0, len(assets))
	for _, asset := range assets {
		if !fileutil.Exists(project.NormalizedPath(asset.Stem(), strings.ToLower(asset.Ext()))) {
			pending = append(pending, asset)
		}
	}
	o.phaseStart(ctx, "normalize")
	errs := forEach(ctx, o.cfg.Transcode.Workers, len(pending), func(ctx context.Context, i int) error {
		asset := pending[i]
		dst := project.NormalizedPath(asset.Stem(), strings.ToLower(asset.Ext()))
		return o.transcoder.Normalize(ctx, asset.Path, dst)
	})
	count, warnings := tally("normalize", pending, errs)
	o.phaseDone(ctx, "normalize")
	return count, warnings
}

func (o *Orchestrator) proxyAll(ctx context.Context, project *projects.Project, assets []media.Asset) (int, []string) {
	pending := make([]media.Asset, 0, len(assets))
	for _, asset := range assets {
		if !fileutil.Exists(project.ProxyPath(asset.Stem())) {
			pending = append(pending, asset)
		}
	}
	o.phaseStart(ctx, "proxy")
	errs := forEach(ctx, o.cfg.Transcode.Workers, len(pending), func(ctx context.Context, i int) error {
		asset := pending[i]
		return o.transcoder.Proxy(ctx, asset.Path, project.ProxyPath(asset.Stem()), asset.Camera)
	})
	count, warnings := tally("proxy", pending, errs)
	o.phaseDone(ctx, "proxy")
	return count, warnings
}

func (o *Orchestrator) transcribeAll(ctx context.Context, project *projects.Project, assets []media.Asset, subtitles bool) (int, []string) {
	pending := make([]media.Asset, 0, len(assets))
	for _, asset := range assets {
		stem := asset.Stem()
		if fileutil.Exists(project.TranscriptPath(stem)) && fileutil.Exists(project.SubtitlePath(stem)) {
			continue
		}
		pending = append(pending, asset)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	cuda := false
	if o.detectCUDA != nil {
		cuda = o.detectCUDA(ctx)
	} else {
		cuda = DetectCUDA(ctx, o.cfg.Transcription.CUDA, nil)
	}
	workers := TranscribeWorkers(cuda)
	o.phaseStart(ctx, "transcribe")
	logging.WithContext(ctx, o.logger).Info("transcription pool sized",
		logging.Bool("cuda", cuda),
		logging.Int("workers", workers))

	// The device choice lands in the whisperx invocation, so the default
	// transcriber is built only after acceleration has been decided.
	transcriber := o.transcriber
	if transcriber == nil {
		transcriber = whisper.NewService(whisper.Config{
			Model:     o.cfg.Transcription.Model,
			UVXBinary: o.cfg.Transcription.UVXBinary,
			CUDA:      cuda,
			Language:  o.cfg.Transcription.Language,
		})
	}

	workDir := filepath.Join(project.TranscriptionDir(), ".whisper")
	errs := forEach(ctx, workers, len(pending), func(ctx context.Context, i int) error {
		asset := pending[i]
		tr, err := transcriber.Transcribe(services.WithAsset(ctx, asset.Base()), asset.Path, workDir)
		if err != nil {
			return err
		}
		stem := asset.Stem()
		if err := transcript.Save(tr, project.TranscriptPath(stem)); err != nil {
			return err
		}
		if subtitles {
			return transcript.RenderSRT(tr, project.SubtitlePath(stem))
		}
		return nil
	})
	count, warnings := tally("transcribe", pending, errs)
	o.phaseDone(ctx, "transcribe")
	return count, warnings
}

// segmentAll loads each transcript, detects markers, and cuts segments when
// requested. Assets without a transcript, including those whose
// transcription just failed, contribute nothing and no warning of their own.
func (o *Orchestrator) segmentAll(ctx context.Context, project *projects.Project, assets []media.Asset, cut bool, result *Result) {
	o.phaseStart(ctx, "segment")
	segmenter := segmenting.New(o.logger, o.transcoder, o.prober)
	for _, asset := range assets {
		stem := asset.Stem()
		tPath := project.TranscriptPath(stem)
		if !fileutil.Exists(tPath) {
			continue
		}
		tr, err := transcript.Load(tPath)
		if err != nil {
			result.warnf("segment %s: %v", asset.Base(), err)
			continue
		}
		marks, err := o.detector.Detect(tr)
		if err != nil {
			result.warnf("segment %s: %v", asset.Base(), err)
			continue
		}
		result.Markers += len(marks)
		if !cut || len(marks) == 0 {
			continue
		}

		source := asset.Path
		if normalized := project.NormalizedPath(stem, strings.ToLower(asset.Ext())); fileutil.Exists(normalized) {
			source = normalized
		}
		summary, err := segmenter.Process(services.WithAsset(ctx, asset.Base()), project, source, marks)
		if err != nil {
			result.warnf("segment %s: %v", asset.Base(), services.Message(err))
			continue
		}
		result.Segments += summary.Cut + summary.Skipped
		result.warnAll(summary.Warnings)
	}
	o.phaseDone(ctx, "segment")
}

// bindEditor pushes the project into a running editor. An unreachable
// editor is the expected idle state and binds nothing, silently.
func (o *Orchestrator) bindEditor(ctx context.Context, project *projects.Project, result *Result) {
	log := logging.WithContext(ctx, o.logger)
	editorSession, err := o.bridge.Connect(ctx)
	if err != nil {
		if services.Kind(err) == services.ErrNotFound {
			log.Debug("editor not running, binding skipped")
			return
		}
		result.warnf("editor: %v", services.Message(err))
		return
	}

	label := project.DisplayName()
	if err := editorSession.EnsureProject(ctx, label); err != nil {
		result.warnf("editor: %v", services.Message(err))
		return
	}
	for _, bin := range []string{"Originals", "Proxies", "Segments"} {
		if err := editorSession.CreateBin(ctx, label, bin); err != nil {
			result.warnf("editor: %v", services.Message(err))
		}
	}

	paths := o.importablePaths(project)
	if limit := o.cfg.Editor.ImportLimit; limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	imported, err := editorSession.ImportMedia(ctx, label, "Proxies", paths)
	if err != nil {
		result.warnf("editor: %v", services.Message(err))
		return
	}
	if err := editorSession.CreateTimeline(ctx, label, project.Name); err != nil {
		result.warnf("editor: %v", services.Message(err))
	}
	result.EditorBound = true
	log.Info("editor bound",
		logging.String("editor_project", label),
		logging.Int("imported", imported))
}

// importablePaths prefers proxies for editor import and falls back to the
// project's original media when none were generated.
func (o *Orchestrator) importablePaths(project *projects.Project) []string {
	var paths []string
	proxies, err := media.Discover(project.ProxyDir(), config.Camera{})
	if err == nil {
		for _, p := range proxies {
			paths = append(paths, p.Path)
		}
	}
	if len(paths) > 0 {
		return paths
	}
	originals, err := o.discoverProject(project)
	if err != nil {
		return nil
	}
	for _, a := range originals {
		paths = append(paths, a.Path)
	}
	return paths
}

func tally(phase string, pending []media.Asset, errs []error) (int, []string) {
	count := 0
	var warnings []string
	for i, err := range errs {
		if err == nil {
			count++
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s %s: %v", phase, pending[i].Base(), services.Message(err)))
	}
	return count, warnings
}

func (o *Orchestrator) phaseStart(ctx context.Context, phase string) {
	logging.WithContext(ctx, o.logger).Info("phase started",
		logging.String(logging.FieldEventType, "phase_start"),
		logging.String(logging.FieldPhase, phase))
}

func (o *Orchestrator) phaseDone(ctx context.Context, phase string) {
	logging.WithContext(ctx, o.logger).Info("phase completed",
		logging.String(logging.FieldEventType, "phase_complete"),
		logging.String(logging.FieldPhase, phase))
}

func (o *Orchestrator) phaseFailed(ctx context.Context, phase string, err error) {
	logging.WithContext(ctx, o.logger).Error("phase failed",
		logging.String(logging.FieldEventType, "phase_failure"),
		logging.String(logging.FieldPhase, phase),
		logging.Error(err))
}
