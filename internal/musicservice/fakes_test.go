package musicservice

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository/files"
)

type fakeGenerator struct {
	briefCalls int32
	textCalls  int32
	brief      *models.MusicBrief
	prompt     string
	briefErr   error
	textErr    error
}

func (f *fakeGenerator) GenerateBrief(ctx context.Context, snapshot *models.SensorSnapshot) (*models.MusicBrief, error) {
	atomic.AddInt32(&f.briefCalls, 1)
	if f.briefErr != nil {
		return nil, f.briefErr
	}
	return f.brief, nil
}

func (f *fakeGenerator) GenerateText(ctx context.Context, brief *models.MusicBrief) (string, error) {
	atomic.AddInt32(&f.textCalls, 1)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.prompt, nil
}

func (f *fakeGenerator) calls() int32 {
	return atomic.LoadInt32(&f.briefCalls) + atomic.LoadInt32(&f.textCalls)
}

type fakeComposer struct {
	calls   int32
	audio   []byte
	err     error
	lastReq models.ComposeRequest
}

func (f *fakeComposer) Compose(ctx context.Context, req models.ComposeRequest) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

// countingArtifacts wraps the real file repository and counts writes
type countingArtifacts struct {
	*files.FileRepo
	stores int32
}

func (c *countingArtifacts) Store(ctx context.Context, data []byte, filename string) (*models.AudioArtifact, error) {
	atomic.AddInt32(&c.stores, 1)
	return c.FileRepo.Store(ctx, data, filename)
}

type fakeRecords struct {
	mu      sync.Mutex
	creates int
	saved   []*models.GenerationRecord
	err     error
}

func (f *fakeRecords) Create(ctx context.Context, record *models.GenerationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return f.err
	}
	record.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeRecords) List(ctx context.Context, filters models.GenerationFilters) ([]*models.GenerationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

func (f *fakeRecords) Ping(ctx context.Context) error { return nil }
func (f *fakeRecords) Close() error                    { return nil }
