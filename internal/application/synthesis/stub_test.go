package synthesis

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"talkinghead/internal/domain/avatar"
	"talkinghead/internal/domain/job"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// memStore is an in-memory JobStore with the same ordering contract as the
// database-backed one.
type memStore struct {
	mu   sync.Mutex
	jobs map[string]*job.Job
	seq  int
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]*job.Job)}
}

func (s *memStore) Insert(_ context.Context, j *job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Unix(1700000000, 0).Add(time.Duration(s.seq) * time.Second)
	}
	s.seq++
	copied := *j
	s.jobs[j.ID] = &copied
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[id]
	if !ok {
		return nil, job.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (s *memStore) ListByStatus(_ context.Context, status job.Status) ([]job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.Job, 0)
	for _, stored := range s.jobs {
		if stored.Status == status {
			out = append(out, *stored)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out, nil
}

func (s *memStore) FindFirstByStatus(ctx context.Context, status job.Status) (*job.Job, error) {
	listed, err := s.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, nil
	}
	return &listed[0], nil
}

func (s *memStore) Update(_ context.Context, id string, patch job.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	if patch.Status != nil {
		stored.Status = *patch.Status
	}
	if patch.AudioPath != nil {
		stored.AudioPath = *patch.AudioPath
	}
	if patch.RemoteHandle != nil {
		stored.RemoteHandle = *patch.RemoteHandle
	}
	if patch.Progress != nil {
		stored.Progress = *patch.Progress
	}
	if patch.Message != nil {
		stored.Message = *patch.Message
	}
	if patch.ResultPath != nil {
		stored.ResultPath = *patch.ResultPath
	}
	if patch.Duration != nil {
		stored.Duration = *patch.Duration
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *memStore) CountByStatus(_ context.Context) (map[job.Status]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[job.Status]int64)
	for _, stored := range s.jobs {
		counts[stored.Status]++
	}
	return counts, nil
}

func (s *memStore) RemoveTerminalBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, stored := range s.jobs {
		if stored.Status.Terminal() && stored.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// mustGet is a test helper; it panics on a missing id so assertions stay
// one-liners.
func (s *memStore) mustGet(id string) *job.Job {
	stored, err := s.GetByID(context.Background(), id)
	if err != nil {
		panic(fmt.Sprintf("job %s missing: %v", id, err))
	}
	return stored
}

type stubCatalog struct {
	models map[string]*avatar.Model
	voices map[string]*avatar.Voice
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		models: map[string]*avatar.Model{
			"m1": {ID: "m1", Name: "anchor", VideoPath: "/models/m1.mp4"},
		},
		voices: map[string]*avatar.Voice{
			"v1": {ID: "v1", Name: "narrator", ReferenceAudioPath: "/voices/v1.wav", ReferenceText: "reference"},
		},
	}
}

func (c *stubCatalog) GetModel(_ context.Context, id string) (*avatar.Model, error) {
	m, ok := c.models[id]
	if !ok {
		return nil, avatar.ErrModelNotFound
	}
	return m, nil
}

func (c *stubCatalog) GetVoice(_ context.Context, id string) (*avatar.Voice, error) {
	v, ok := c.voices[id]
	if !ok {
		return nil, avatar.ErrVoiceNotFound
	}
	return v, nil
}

type stubSpeech struct {
	audioPath string
	err       error
	calls     int
}

func (s *stubSpeech) Synthesize(_ context.Context, _ *avatar.Voice, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.audioPath, nil
}

type stubRender struct {
	submitResult job.SubmitResult
	submitErr    error
	submitCalls  int
	onSubmit     func()

	pollResults []job.PollResult
	pollErr     error
	pollCalls   int
	lastHandle  string
	onPoll      func()
}

func (r *stubRender) Submit(_ context.Context, _, _ string) (job.SubmitResult, error) {
	r.submitCalls++
	if r.onSubmit != nil {
		r.onSubmit()
	}
	if r.submitErr != nil {
		return job.SubmitResult{}, r.submitErr
	}
	return r.submitResult, nil
}

func (r *stubRender) Poll(_ context.Context, handle string) (job.PollResult, error) {
	r.lastHandle = handle
	if r.onPoll != nil {
		r.onPoll()
	}
	if r.pollErr != nil {
		r.pollCalls++
		return job.PollResult{}, r.pollErr
	}
	idx := r.pollCalls
	if idx >= len(r.pollResults) {
		idx = len(r.pollResults) - 1
	}
	r.pollCalls++
	return r.pollResults[idx], nil
}

type stubProber struct {
	duration float64
	err      error
	calls    int
}

func (p *stubProber) Duration(_ context.Context, _ string) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return p.duration, nil
}

// fixture bundles the wired machine/scheduler/service around shared stubs.
type fixture struct {
	store   *memStore
	catalog *stubCatalog
	speech  *stubSpeech
	render  *stubRender
	prober  *stubProber

	machine   *Machine
	scheduler *Scheduler
	service   *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:   newMemStore(),
		catalog: newStubCatalog(),
		speech:  &stubSpeech{audioPath: "/audio/a1.wav"},
		render: &stubRender{
			submitResult: job.SubmitResult{Accepted: true, Handle: "h1"},
			pollResults:  []job.PollResult{{State: job.RemoteRunning, Progress: 10}},
		},
		prober: &stubProber{duration: 12.3},
	}
	logger := testLogger()
	f.machine = NewMachine(f.store, f.catalog, f.catalog, f.speech, f.render, f.prober, logger)
	f.scheduler = NewScheduler(f.store, f.machine, time.Second, logger)
	f.service = NewService(f.store, f.catalog, f.catalog, logger)
	return f
}

func (f *fixture) addJob(id string, status job.Status) *job.Job {
	j := &job.Job{
		ID:         id,
		ModelID:    "m1",
		VoiceID:    "v1",
		ScriptText: "Hello",
		Status:     status,
	}
	_ = f.store.Insert(context.Background(), j)
	return j
}
