package trendclipper

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trendclipper/agents/trend-clipper/trend"
	"trendclipper/agents/trend-clipper/youtube"
	"trendclipper/internal/models"
	"trendclipper/shared/ai"
	"trendclipper/shared/clip"
	"trendclipper/shared/config"
	"trendclipper/shared/email"
	"trendclipper/shared/events"
	"trendclipper/shared/media"
	"trendclipper/shared/monitoring"
	"trendclipper/shared/scheduler"
	"trendclipper/shared/sheets"
	"trendclipper/shared/storage"

	"github.com/google/uuid"
)

// trackerMaxAge is how long a clipped source video stays ineligible.
const trackerMaxAge = 7 * 24 * time.Hour

// videoCatalog is the search and metadata surface of the YouTube client.
type videoCatalog interface {
	trend.Searcher
	trend.MetadataFetcher
}

type transcriptFetcher interface {
	Transcript(ctx context.Context, videoID string) []models.TranscriptSegment
}

type momentSelector interface {
	SelectMoment(ctx context.Context, transcript []models.TranscriptSegment, video models.VideoCandidate) models.MomentCandidate
	Caption(ctx context.Context, moment models.MomentCandidate, video models.VideoCandidate) string
	Analyze(ctx context.Context, video models.VideoCandidate, transcript []models.TranscriptSegment) (*models.VideoAnalysis, error)
}

type resultPersister interface {
	SaveRanked(ctx context.Context, ranked []models.RankedCandidate) error
}

type clipProcessor interface {
	ProcessToShort(ctx context.Context, videoID, videoURL string, startTime, duration float64, opts media.Options) (string, func(), error)
}

type clipUploader interface {
	Upload(ctx context.Context, filePath string, descriptor models.ClipDescriptor) (string, error)
}

type clipTracker interface {
	IsProcessed(videoID string) bool
	MarkProcessed(videoID string) error
}

type digestSender interface {
	SendDigest(ranked []models.RankedCandidate, clip *models.ClipDescriptor) error
}

// Agent implements the scheduler.Agent interface. One run walks the full
// pipeline: aggregate candidates, rank them, persist the top videos, then
// optionally extract, render, and upload a clip from the winner.
type Agent struct {
	config   *config.Config
	recorder *events.Recorder
	monitor  *monitoring.Monitor

	catalog     videoCatalog
	transcripts transcriptFetcher
	selector    momentSelector
	persister   resultPersister
	processor   clipProcessor
	uploader    clipUploader
	tracker     clipTracker
	email       digestSender

	mu   sync.RWMutex
	runs map[string]*models.RunStatus
}

func NewAgent(cfg *config.Config, recorder *events.Recorder, monitor *monitoring.Monitor) *Agent {
	return &Agent{
		config:   cfg,
		recorder: recorder,
		monitor:  monitor,
		runs:     make(map[string]*models.RunStatus),
	}
}

func (a *Agent) Name() string {
	return "Trend Clipper"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.catalog == nil {
		client, err := youtube.NewClient(&a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.catalog = client
		log.Println("YouTube client initialized")
	}

	if a.transcripts == nil {
		a.transcripts = youtube.NewTranscriptClient()
	}

	if a.selector == nil {
		generator, err := ai.NewClient(&a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}
		timeout := time.Duration(a.config.AI.RequestTimeoutSeconds) * time.Second
		a.selector = ai.NewSelector(generator, timeout)
		log.Println("Moment selector initialized")
	}

	if a.tracker == nil && a.config.Workflow.SkipProcessed {
		tracker, err := storage.NewClipTracker(a.config.Workflow.DataDir, trackerMaxAge)
		if err != nil {
			return fmt.Errorf("failed to create clip tracker: %w", err)
		}
		a.tracker = tracker
		log.Printf("Clip tracker initialized (%d videos tracked)", tracker.ProcessedCount())
	}

	if a.processor == nil && (a.config.Workflow.ProcessVideo || a.config.Workflow.UploadToYouTube) {
		processor, err := media.NewProcessor(a.config.Workflow.DataDir)
		if err != nil {
			return fmt.Errorf("failed to create media processor: %w", err)
		}
		a.processor = processor
	}

	if a.email == nil && a.config.Email.Enabled {
		a.email = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	needsOAuth := a.config.Workflow.UploadToYouTube || a.config.Sheets.SpreadsheetID != ""
	if needsOAuth && (a.persister == nil || a.uploader == nil) {
		ctx := context.Background()
		httpClient, err := youtube.NewAuthenticatedClient(ctx, &a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create authenticated client: %w", err)
		}

		if a.persister == nil && a.config.Sheets.SpreadsheetID != "" {
			writer, err := sheets.NewWriter(ctx, httpClient, &a.config.Sheets)
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}
			a.persister = writer
			log.Println("Sheets writer initialized")
		}

		if a.uploader == nil && a.config.Workflow.UploadToYouTube {
			uploader, err := youtube.NewUploader(ctx, httpClient)
			if err != nil {
				return fmt.Errorf("failed to create uploader: %w", err)
			}
			a.uploader = uploader
			log.Println("Shorts uploader initialized")
		}
	}

	return nil
}

// RunOnce executes one workflow run with the configured options.
func (a *Agent) RunOnce(ctx context.Context, agentEvents *scheduler.AgentEvents) error {
	startTime := time.Now()
	runID := uuid.New().String()

	result, err := a.runWorkflow(ctx, runID, a.defaultOptions())
	duration := time.Since(startTime)

	if err != nil {
		if agentEvents != nil && agentEvents.OnCriticalFailure != nil {
			agentEvents.OnCriticalFailure(err, duration)
		}
		return err
	}

	if agentEvents != nil && agentEvents.OnSuccess != nil {
		agentEvents.OnSuccess(resultMetrics{result: result}, duration)
	}
	return nil
}

func (a *Agent) defaultOptions() models.RunOptions {
	return models.RunOptions{
		MaxResults:      a.config.Workflow.MaxResults,
		TopCount:        a.config.Workflow.TopCount,
		ExtractClip:     a.config.Workflow.ExtractClip,
		UploadToYouTube: a.config.Workflow.UploadToYouTube,
		ProcessVideo:    a.config.Workflow.ProcessVideo,
	}
}

// resultMetrics adapts a run result to the scheduler's metrics interface.
type resultMetrics struct {
	result *models.RunResult
}

func (m resultMetrics) GetSummary() string {
	if m.result == nil {
		return "no result"
	}
	summary := fmt.Sprintf("%d videos ranked", len(m.result.Videos))
	if m.result.Clip != nil {
		summary += fmt.Sprintf(", clip %s [%.0fs-%.0fs]",
			m.result.Clip.VideoID, m.result.Clip.StartTime, m.result.Clip.EndTime)
	}
	return summary
}

// StartRun launches a workflow run in the background and returns its run ID
// immediately. Progress is observable through RunStatus and the event
// recorder.
func (a *Agent) StartRun(opts models.RunOptions) string {
	runID := uuid.New().String()
	status := &models.RunStatus{
		RunID:     runID,
		State:     models.RunPending,
		StartedAt: time.Now(),
	}

	a.mu.Lock()
	a.runs[runID] = status
	a.mu.Unlock()

	a.recorder.Record(events.TypeTrigger, runID, "Workflow run %s started", runID)

	go func() {
		a.setRunState(runID, models.RunRunning, nil, "")

		result, err := a.runWorkflow(context.Background(), runID, opts)
		if err != nil {
			a.setRunState(runID, models.RunFailed, result, err.Error())
			return
		}
		a.setRunState(runID, models.RunCompleted, result, "")
	}()

	return runID
}

// RunStatus returns the current status of a run started with StartRun.
func (a *Agent) RunStatus(runID string) (models.RunStatus, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status, ok := a.runs[runID]
	if !ok {
		return models.RunStatus{}, false
	}
	return *status, true
}

func (a *Agent) setRunState(runID string, state models.RunState, result *models.RunResult, errMsg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	status, ok := a.runs[runID]
	if !ok {
		return
	}
	status.State = state
	status.Result = result
	status.Error = errMsg
	if state == models.RunCompleted || state == models.RunFailed {
		now := time.Now()
		status.FinishedAt = &now
	}
}

// runWorkflow is the pipeline. Only an empty candidate or ranking set is a
// hard failure; every other stage degrades and the run continues.
func (a *Agent) runWorkflow(ctx context.Context, runID string, opts models.RunOptions) (*models.RunResult, error) {
	a.applyOptionDefaults(&opts)

	// FETCH
	a.recorder.Record(events.TypeSearch, runID, "Fetching trending candidates (%d queries, cap %d)",
		len(a.config.Workflow.SearchQueries), opts.MaxResults)

	candidates := trend.Aggregate(ctx, a.catalog, a.config.Workflow.SearchQueries, opts.MaxResults)
	candidates = a.filterProcessed(runID, candidates)

	if len(candidates) == 0 {
		err := fmt.Errorf("no candidates found across all search queries")
		a.recorder.Record(events.TypeError, runID, "Workflow failed: %v", err)
		return &models.RunResult{Success: false, Message: err.Error()}, err
	}

	// RANK
	a.recorder.Record(events.TypeProcessing, runID, "Ranking %d candidates", len(candidates))
	ranked := trend.Rank(ctx, a.catalog, candidates, time.Now(), a.config.Workflow.PopularCreators)
	if len(ranked) == 0 {
		err := fmt.Errorf("no candidates survived ranking")
		a.recorder.Record(events.TypeError, runID, "Workflow failed: %v", err)
		return &models.RunResult{Success: false, Message: err.Error()}, err
	}

	// SELECT_TOP
	topVideos := ranked
	if len(topVideos) > opts.TopCount {
		topVideos = topVideos[:opts.TopCount]
	}
	a.recorder.Record(events.TypeSuccess, runID, "Selected top %d videos, leader %q (score %.2f)",
		len(topVideos), topVideos[0].Title, topVideos[0].Trend.Score)

	result := &models.RunResult{
		Success: true,
		Videos:  topVideos,
		Message: "Trending workflow completed (clip extraction skipped)",
	}

	// PERSIST, best effort
	a.persistRanked(ctx, runID, topVideos)

	// EXTRACT_CLIP
	if opts.ExtractClip {
		descriptor := a.extractClip(ctx, runID, topVideos[0])
		result.Clip = descriptor
		if descriptor != nil {
			result.Message = "Trending workflow completed successfully"
			a.processAndUpload(ctx, runID, descriptor, opts)
		}
	}

	a.sendDigest(runID, result)
	a.recorder.Record(events.TypeComplete, runID, "Workflow run finished: %s", result.Message)
	return result, nil
}

func (a *Agent) applyOptionDefaults(opts *models.RunOptions) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = a.config.Workflow.MaxResults
	}
	if opts.TopCount <= 0 {
		opts.TopCount = a.config.Workflow.TopCount
	}
	if opts.TopCount > opts.MaxResults {
		opts.TopCount = opts.MaxResults
	}
}

// filterProcessed drops candidates that already produced a clip recently.
func (a *Agent) filterProcessed(runID string, candidates []models.VideoCandidate) []models.VideoCandidate {
	if a.tracker == nil {
		return candidates
	}

	kept := candidates[:0]
	skipped := 0
	for _, candidate := range candidates {
		if a.tracker.IsProcessed(candidate.VideoID) {
			skipped++
			continue
		}
		kept = append(kept, candidate)
	}

	if skipped > 0 {
		a.recorder.Record(events.TypeProcessing, runID, "Skipped %d already-clipped videos", skipped)
	}
	return kept
}

func (a *Agent) persistRanked(ctx context.Context, runID string, ranked []models.RankedCandidate) {
	if a.persister == nil {
		return
	}

	if err := a.persister.SaveRanked(ctx, ranked); err != nil {
		// Sheet trouble never fails the run
		a.recorder.Record(events.TypeError, runID, "Failed to persist ranked results: %v", err)
		return
	}
	a.recorder.Record(events.TypeSuccess, runID, "Persisted %d ranked videos", len(ranked))
}

// extractClip resolves the clip window for the top video. It cannot fail:
// the selector's fallback chain always yields a usable moment.
func (a *Agent) extractClip(ctx context.Context, runID string, top models.RankedCandidate) *models.ClipDescriptor {
	a.recorder.Record(events.TypeClip, runID, "Extracting clip from %q", top.Title)

	transcript := a.transcripts.Transcript(ctx, top.VideoID)
	moment := a.selector.SelectMoment(ctx, transcript, top.VideoCandidate)

	analysis, err := a.selector.Analyze(ctx, top.VideoCandidate, transcript)
	if err != nil {
		log.Printf("Warning: video analysis unavailable for %s: %v", top.VideoID, err)
		analysis = nil
	}

	descriptor := clip.Resolve(top, moment, analysis)

	if descriptor.Subtitle == "" {
		if caption := a.selector.Caption(ctx, moment, top.VideoCandidate); caption != "" {
			descriptor.Subtitle = caption
		}
	}

	a.recorder.Record(events.TypeClip, runID, "Clip resolved: %.0fs-%.0fs (%s)",
		descriptor.StartTime, descriptor.EndTime, descriptor.Reason)

	if a.tracker != nil {
		if err := a.tracker.MarkProcessed(top.VideoID); err != nil {
			log.Printf("Warning: failed to mark %s as processed: %v", top.VideoID, err)
		}
	}

	return &descriptor
}

// processAndUpload renders the short and optionally publishes it. Failures
// abort only these stages.
func (a *Agent) processAndUpload(ctx context.Context, runID string, descriptor *models.ClipDescriptor, opts models.RunOptions) {
	if !opts.ProcessVideo && !opts.UploadToYouTube {
		return
	}
	if a.processor == nil {
		a.recorder.Record(events.TypeError, runID, "Media processor not configured, skipping render")
		return
	}

	outputPath, cleanup, err := a.processor.ProcessToShort(ctx, descriptor.VideoID, descriptor.VideoURL,
		descriptor.StartTime, descriptor.Duration, media.Options{
			Title:         descriptor.Caption,
			Subtitle:      descriptor.Subtitle,
			WatermarkPath: a.config.Workflow.WatermarkPath,
		})
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		a.recorder.Record(events.TypeError, runID, "Clip extraction failed: %v", err)
		return
	}

	a.monitor.RecordClip()
	a.recorder.Record(events.TypeClip, runID, "Rendered short: %s", outputPath)

	if !opts.UploadToYouTube {
		return
	}
	if a.uploader == nil {
		a.recorder.Record(events.TypeError, runID, "Uploader not configured, skipping upload")
		return
	}

	url, err := a.uploader.Upload(ctx, outputPath, *descriptor)
	if err != nil {
		a.recorder.Record(events.TypeError, runID, "Upload failed: %v", err)
		return
	}
	a.recorder.Record(events.TypeUpload, runID, "Uploaded short: %s", url)
}

func (a *Agent) sendDigest(runID string, result *models.RunResult) {
	if a.email == nil {
		return
	}

	if err := a.email.SendDigest(result.Videos, result.Clip); err != nil {
		a.recorder.Record(events.TypeError, runID, "Failed to send digest email: %v", err)
		return
	}
	a.recorder.Record(events.TypeSuccess, runID, "Digest email sent")
}
