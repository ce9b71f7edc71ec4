package musicservice

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/database"
	"github.com/itsatony/sensorscore/internal/elevenlabs"
	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository/files"
	"github.com/itsatony/sensorscore/internal/repository/sqlrepo"
)

const testPrompt = "Ambient track for a focused cafeteria. Mood: focused, energy 62/100, tension 35/100.\n" +
	"Tempo: 84-92 BPM, loopable, ~240s. Key: D minor.\n" +
	"Instruments: warm pads, soft piano, light shaker.\n" +
	"Goal: steady momentum without masking speech."

type harness struct {
	svc       *MusicService
	gen       *fakeGenerator
	composer  *fakeComposer
	artifacts *countingArtifacts
	records   *fakeRecords
	bus       *events.Bus
	dir       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "public", "audio")
	h := &harness{
		gen: &fakeGenerator{
			brief: &models.MusicBrief{
				Mood:            models.MoodFocused,
				Energy:          62,
				Tension:         35,
				BPM:             [2]float64{84, 92},
				DurationSec:     240,
				Loopable:        true,
				KeySuggestion:   "D minor",
				InstrumentFocus: []string{"warm pads", "soft piano"},
				TextureNotes:    "low density",
				Rationale:       "good air and moderate occupancy",
			},
			prompt: testPrompt,
		},
		composer:  &fakeComposer{audio: bytes.Repeat([]byte{0xAB}, 64*1024)},
		artifacts: &countingArtifacts{FileRepo: files.NewFileRepository(files.FileConfig{BasePath: dir})},
		records:   &fakeRecords{},
		bus:       events.NewBus(),
		dir:       dir,
	}
	h.svc = New(h.gen, h.composer, h.artifacts, h.records, h.bus)
	return h
}

func cafeteria() *models.SensorSnapshot {
	return &models.SensorSnapshot{
		Timestamp:         "2025-01-28T12:05:00",
		Zone:              "Cafeteria",
		TemperatureC:      22.8,
		HumidityPct:       48,
		CO2Ppm:            720,
		VOCIndex:          110,
		Occupancy:         30,
		NoiseDBA:          52,
		ProductivityScore: 74,
	}
}

func requireAPIError(t *testing.T, err error, typ errors.ErrorType, code int) *errors.APIError {
	t.Helper()
	apiErr, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Type != typ || apiErr.Code != code {
		t.Fatalf("expected %s/%d, got %s/%d (%s)", typ, code, apiErr.Type, apiErr.Code, apiErr.Message)
	}
	return apiErr
}

func TestGenerateMusic_EndToEnd(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Success || res.MusicBrief.Mood != models.MoodFocused {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Prompt) == 0 || len(res.Prompt) > 450 {
		t.Errorf("prompt length %d outside (0, 450]", len(res.Prompt))
	}
	if !regexp.MustCompile(`^cafeteria_2025-01-28t12-05-00.*\.mp3$`).MatchString(res.Filename) {
		t.Errorf("unexpected filename %q", res.Filename)
	}
	if res.AudioPath != "/audio/"+res.Filename {
		t.Errorf("unexpected audio path %q", res.AudioPath)
	}
	if res.MusicLengthMs != 60000 || res.ModelID != "music_v1" {
		t.Errorf("expected defaults, got %d/%s", res.MusicLengthMs, res.ModelID)
	}
	if h.composer.lastReq.Prompt != testPrompt || h.composer.lastReq.MusicLengthMs != 60000 {
		t.Errorf("composer got %+v", h.composer.lastReq)
	}

	info, err := os.Stat(filepath.Join(h.dir, res.Filename))
	if err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
	if info.Size() != 64*1024 {
		t.Errorf("expected 65536 bytes, got %d", info.Size())
	}

	if len(h.records.saved) != 1 {
		t.Fatalf("expected 1 record, got %d", len(h.records.saved))
	}
	rec := h.records.saved[0]
	if rec.AudioFilename != res.Filename || rec.Zone != "Cafeteria" || rec.CO2Ppm != 720 {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.GenerationTimestamp.Equal(res.GenerationTimestamp) {
		t.Errorf("record and result timestamps differ")
	}

	sensedAt, ok := models.ParseSensorTime(cafeteria().Timestamp)
	if !ok {
		t.Fatalf("expected snapshot timestamp to parse")
	}
	if !res.GenerationTimestamp.After(sensedAt) {
		t.Errorf("generation timestamp %v not after sensor timestamp %v", res.GenerationTimestamp, sensedAt)
	}

	body, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var wire struct {
		GenerationTimestamp string `json:"generation_timestamp"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, wire.GenerationTimestamp)
	if err != nil {
		t.Fatalf("generation_timestamp %q is not ISO-8601: %v", wire.GenerationTimestamp, err)
	}
	if !parsed.Equal(res.GenerationTimestamp) {
		t.Errorf("generation_timestamp did not round-trip: %v vs %v", parsed, res.GenerationTimestamp)
	}
}

func TestGenerateMusic_MissingFieldsMakesNoCalls(t *testing.T) {
	for name, snap := range map[string]*models.SensorSnapshot{
		"no zone":      {Timestamp: "2025-01-28T12:05:00"},
		"no timestamp": {Zone: "Cafeteria"},
		"blank zone":   {Timestamp: "2025-01-28T12:05:00", Zone: "   "},
		"nil":          nil,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.GenerateMusic(context.Background(), snap, models.ComposeRequest{})
			requireAPIError(t, err, errors.ErrorTypeValidation, http.StatusBadRequest)

			if h.gen.calls() != 0 || h.composer.calls != 0 || h.artifacts.stores != 0 || h.records.creates != 0 {
				t.Errorf("expected zero collaborator calls, got gen=%d compose=%d store=%d record=%d",
					h.gen.calls(), h.composer.calls, h.artifacts.stores, h.records.creates)
			}
		})
	}
}

func TestGenerateMusic_MissingCredentials(t *testing.T) {
	h := newHarness(t)
	h.svc.Generator = nil
	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	apiErr := requireAPIError(t, err, errors.ErrorTypeConfiguration, http.StatusInternalServerError)
	if apiErr.Message != "OpenAI API key not configured" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}

	h = newHarness(t)
	h.svc.Composer = nil
	_, err = h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	requireAPIError(t, err, errors.ErrorTypeConfiguration, http.StatusInternalServerError)
	if h.gen.calls() != 0 {
		t.Errorf("expected no generator calls without a composer, got %d", h.gen.calls())
	}
}

func TestGenerateMusic_BriefFailureStopsRun(t *testing.T) {
	h := newHarness(t)
	h.gen.briefErr = stderrors.New("model returned no text")

	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	requireAPIError(t, err, errors.ErrorTypeUpstreamGeneration, http.StatusBadGateway)
	if h.gen.textCalls != 0 || h.composer.calls != 0 || h.artifacts.stores != 0 {
		t.Errorf("expected the run to stop after the brief")
	}

	h = newHarness(t)
	h.gen.textErr = stderrors.New("model returned no text")

	_, err = h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	apiErr := requireAPIError(t, err, errors.ErrorTypeUpstreamGeneration, http.StatusBadGateway)
	if apiErr.Message != "Failed to generate music prompt" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if h.gen.briefCalls != 1 || h.composer.calls != 0 || h.artifacts.stores != 0 || h.records.creates != 0 {
		t.Errorf("expected the run to stop after the prompt step")
	}
}

func TestGenerateMusic_EmptyPromptIsUpstreamFailure(t *testing.T) {
	h := newHarness(t)
	h.gen.prompt = "   "

	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	requireAPIError(t, err, errors.ErrorTypeUpstreamGeneration, http.StatusBadGateway)
	if h.composer.calls != 0 {
		t.Errorf("composer should not be called")
	}
}

func TestGenerateMusic_ComposerRateLimited(t *testing.T) {
	h := newHarness(t)
	h.composer.err = &elevenlabs.ComposeError{Status: http.StatusTooManyRequests, Message: "rate limited"}

	failed := make(chan models.GenerationEvent, 1)
	h.bus.Subscribe(events.GenerationFailed, "test", func(e models.GenerationEvent) { failed <- e })

	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	apiErr := requireAPIError(t, err, errors.ErrorTypeUpstreamComposition, http.StatusTooManyRequests)
	if apiErr.Message != "rate limited" {
		t.Errorf("expected upstream message verbatim, got %q", apiErr.Message)
	}
	if h.artifacts.stores != 0 || h.records.creates != 0 {
		t.Errorf("expected nothing written, got store=%d record=%d", h.artifacts.stores, h.records.creates)
	}
	if _, err := os.Stat(h.dir); !os.IsNotExist(err) {
		t.Errorf("expected no content directory, stat err=%v", err)
	}

	select {
	case e := <-failed:
		if e.Stage != models.StageCompose {
			t.Errorf("expected compose stage, got %q", e.Stage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("generation.failed not published")
	}
}

func TestGenerateMusic_ComposerTransportFailureIs500(t *testing.T) {
	h := newHarness(t)
	h.composer.err = &elevenlabs.ComposeError{Message: "connection refused"}

	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	requireAPIError(t, err, errors.ErrorTypeUpstreamComposition, http.StatusInternalServerError)
}

func TestGenerateMusic_StorageFailure(t *testing.T) {
	h := newHarness(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	h.artifacts.FileRepo = files.NewFileRepository(files.FileConfig{BasePath: filepath.Join(blocker, "audio")})

	_, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{})
	requireAPIError(t, err, errors.ErrorTypeStorage, http.StatusInternalServerError)
	if h.records.creates != 0 {
		t.Errorf("no record expected after a storage failure")
	}
}

func TestGenerateMusic_RecordFailureStillSucceeds(t *testing.T) {
	h := newHarness(t)
	h.records.err = errors.NewDatabaseError("failed to create generation record", stderrors.New("connection reset"))

	recordFailed := make(chan models.GenerationEvent, 1)
	h.bus.Subscribe(events.RecordFailed, "test", func(e models.GenerationEvent) { recordFailed <- e })

	res, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{MusicLengthMs: 30000, ModelID: "music_v1"})
	if err != nil {
		t.Fatalf("expected success despite record failure, got %v", err)
	}
	if !res.Success || res.MusicLengthMs != 30000 {
		t.Errorf("unexpected result %+v", res)
	}
	if _, err := os.Stat(filepath.Join(h.dir, res.Filename)); err != nil {
		t.Errorf("audio file should remain: %v", err)
	}

	select {
	case e := <-recordFailed:
		if e.Filename != res.Filename || e.ErrorType != string(errors.ErrorTypeDatabase) {
			t.Errorf("unexpected event %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("record.failed not published")
	}
}

func TestGenerateMusic_UnconfiguredRecordStore(t *testing.T) {
	h := newHarness(t)
	h.svc.Records = nil

	if _, err := h.svc.GenerateMusic(context.Background(), cafeteria(), models.ComposeRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := h.svc.History(context.Background(), models.GenerationFilters{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !res.Success || res.Count != 0 || res.Records == nil || len(res.Records) != 0 {
		t.Errorf("expected empty history, got %+v", res)
	}
}

func TestHistory_LimitAndOrder(t *testing.T) {
	h := newHarness(t)
	db, err := database.NewSQLiteDB(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "records.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo, err := sqlrepo.NewRecordRepository(context.Background(), db, "")
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	defer repo.Close()
	h.svc.Records = repo

	clock := time.Date(2025, 1, 28, 12, 0, 0, 0, time.UTC)
	h.svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	var filenames []string
	for i := 0; i < 5; i++ {
		snap := cafeteria()
		snap.Timestamp = time.Date(2025, 1, 28, 12, i, 0, 0, time.UTC).Format(time.RFC3339)
		res, err := h.svc.GenerateMusic(context.Background(), snap, models.ComposeRequest{})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		filenames = append(filenames, res.Filename)
	}

	res, err := h.svc.History(context.Background(), models.GenerationFilters{Limit: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if res.Count != 2 || len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", res.Count)
	}
	if res.Records[0].AudioFilename != filenames[4] || res.Records[1].AudioFilename != filenames[3] {
		t.Errorf("expected newest first, got %s then %s", res.Records[0].AudioFilename, res.Records[1].AudioFilename)
	}

	other, err := h.svc.History(context.Background(), models.GenerationFilters{Zone: "Lobby"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if other.Count != 0 {
		t.Errorf("expected no lobby records, got %d", other.Count)
	}
}

func TestGeneratePrompt_SkipsComposer(t *testing.T) {
	h := newHarness(t)
	h.svc.Composer = nil

	res, err := h.svc.GeneratePrompt(context.Background(), cafeteria())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Prompt != testPrompt || res.MusicBrief.Mood != models.MoodFocused {
		t.Errorf("unexpected result %+v", res)
	}
	if h.artifacts.stores != 0 || h.records.creates != 0 {
		t.Errorf("prompt generation must not write anything")
	}
}

func TestCompose(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.svc.Compose(context.Background(), models.ComposeRequest{Prompt: "  "})
	requireAPIError(t, err, errors.ErrorTypeValidation, http.StatusBadRequest)

	audio, req, err := h.svc.Compose(context.Background(), models.ComposeRequest{Prompt: "soft rain and pads"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audio) != 64*1024 || req.MusicLengthMs != 60000 || req.ModelID != "music_v1" {
		t.Errorf("unexpected compose result: %d bytes, %+v", len(audio), req)
	}
	if h.artifacts.stores != 0 {
		t.Errorf("compose must not store audio")
	}
}

func TestValidate(t *testing.T) {
	if err := New(nil, nil, nil, nil, nil).Validate(); err == nil {
		t.Fatal("expected missing artifacts error")
	}
}
