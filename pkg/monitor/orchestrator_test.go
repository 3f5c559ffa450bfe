package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResultRadar/pkg/analysis"
	"ResultRadar/pkg/config"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/filter"
	"ResultRadar/pkg/model"
	"ResultRadar/pkg/source"
)

type fakeFetcher struct {
	name string
	anns []model.Announcement
	err  error
}

func (f *fakeFetcher) Name() string         { return f.name }
func (f *fakeFetcher) Source() model.Source { return model.SourceNSE }
func (f *fakeFetcher) Fetch(_ context.Context) ([]model.Announcement, error) {
	return f.anns, f.err
}

type fakeStore struct {
	mu          sync.Mutex
	keys        map[string]bool
	values      map[string]string
	members     []string
	queues      []string
	existsErr   error
	existsCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: make(map[string]bool), values: make(map[string]string)}
}

func (s *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.keys[key], nil
}

func (s *fakeStore) SetWithTTL(_ context.Context, key string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = true
	return nil
}

func (s *fakeStore) SetValue(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeStore) SetMembers(_ context.Context, _ string) ([]string, error) {
	return s.members, nil
}

func (s *fakeStore) Push(_ context.Context, queue string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues = append(s.queues, queue)
	return nil
}

func (s *fakeStore) hasKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

type fakeDeliverer struct {
	err    error
	sent   []string
	onSend func()
}

func (d *fakeDeliverer) Send(_ context.Context, _ *model.AlertMessage, text string) error {
	if d.onSend != nil {
		d.onSend()
	}
	d.sent = append(d.sent, text)
	return d.err
}

type fakeSink struct {
	saved     []*model.AlertRecord
	delivered []string
}

func (s *fakeSink) Save(_ context.Context, record *model.AlertRecord) error {
	record.ID = fmt.Sprintf("rec-%d", len(s.saved)+1)
	s.saved = append(s.saved, record)
	return nil
}

func (s *fakeSink) MarkDelivered(_ context.Context, id string) error {
	s.delivered = append(s.delivered, id)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Extraction.MinText = 100
	cfg.Redis.DedupTTL = time.Hour
	cfg.Monitoring.PollInterval = time.Minute
	cfg.Analysis.StrongBeat = 10
	cfg.Analysis.Beat = 5
	cfg.Analysis.InlineLower = -5
	cfg.Analysis.Miss = -10
	cfg.Analysis.ProfitWeight = 0.5
	cfg.Analysis.RevenueWeight = 0.3
	cfg.Analysis.EPSWeight = 0.2
	return cfg
}

func resultAnnouncement(symbol string) model.Announcement {
	return model.Announcement{
		Source:      model.SourceNSE,
		Symbol:      symbol,
		Description: "Unaudited Financial Results for the quarter ended 31 December 2023",
		ObservedAt:  time.Now(),
	}
}

func newTestOrchestrator(cfg *config.Config, store *fakeStore, deliverer *fakeDeliverer, sink *fakeSink, anns []model.Announcement) *Orchestrator {
	return NewOrchestrator(cfg, Deps{
		Fetchers: []source.Fetcher{&fakeFetcher{name: "nse_api", anns: anns}},
		Stocks:   filter.NewStockFilter(cfg),
		Store:    store,
		Engine:   analysis.NewEngine(cfg),
		Telegram: deliverer,
		Alerts:   sink,
		Health:   NewHealth(nil),
	})
}

func TestRunCycleStoreUnavailableAbortsCycle(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	store.existsErr = dedup.ErrStoreUnavailable
	deliverer := &fakeDeliverer{}
	sink := &fakeSink{}

	anns := []model.Announcement{resultAnnouncement("HIKAL"), resultAnnouncement("NBCC")}
	orch := newTestOrchestrator(cfg, store, deliverer, sink, anns)

	err := orch.runCycle(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dedup.ErrStoreUnavailable))

	// 第一条就中止，第二条不再查去重，也没有任何投递
	assert.Equal(t, 1, store.existsCalls)
	assert.Empty(t, deliverer.sent)
}

func TestRunCycleDeliveryFailureKeepsDedupKey(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	deliverer := &fakeDeliverer{err: errors.New("telegram 429")}
	sink := &fakeSink{}

	ann := resultAnnouncement("HIKAL")
	orch := newTestOrchestrator(cfg, store, deliverer, sink, []model.Announcement{ann, resultAnnouncement("NBCC")})

	err := orch.runCycle(context.Background())
	// 投递失败只影响单条，整轮正常结束
	require.NoError(t, err)

	// 两条都尝试投递过，去重键保留，不会重发
	assert.Len(t, deliverer.sent, 2)
	assert.True(t, store.hasKey(dedup.BuildKey(&ann)))
	assert.Empty(t, sink.delivered)
}

func TestRunCycleDedupKeySetBeforeDelivery(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	sink := &fakeSink{}

	ann := resultAnnouncement("HIKAL")
	key := dedup.BuildKey(&ann)

	deliverer := &fakeDeliverer{}
	deliverer.onSend = func() {
		assert.True(t, store.hasKey(key), "投递时去重键必须已写入")
	}

	orch := newTestOrchestrator(cfg, store, deliverer, sink, []model.Announcement{ann})
	require.NoError(t, orch.runCycle(context.Background()))

	require.Len(t, deliverer.sent, 1)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, []string{"rec-1"}, sink.delivered)
}

func TestRunCycleExtractionFailureDegrades(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	deliverer := &fakeDeliverer{}
	sink := &fakeSink{}

	// 无附件也无预提取文本，提取必然失败
	orch := newTestOrchestrator(cfg, store, deliverer, sink, []model.Announcement{resultAnnouncement("HIKAL")})
	require.NoError(t, orch.runCycle(context.Background()))

	require.Len(t, deliverer.sent, 1)
	assert.Contains(t, deliverer.sent[0], "could not be extracted automatically")
	assert.Equal(t, []string{dedup.QueueFailedExtraction}, store.queues)
}

func TestRunCycleSkipsDuplicates(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	deliverer := &fakeDeliverer{}
	sink := &fakeSink{}

	ann := resultAnnouncement("HIKAL")
	store.keys[dedup.BuildKey(&ann)] = true

	orch := newTestOrchestrator(cfg, store, deliverer, sink, []model.Announcement{ann})
	require.NoError(t, orch.runCycle(context.Background()))

	assert.Empty(t, deliverer.sent)
	assert.Empty(t, sink.saved)
}

func TestRunCycleSyncsSharedState(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	store.members = []string{"newsym"}
	deliverer := &fakeDeliverer{}
	sink := &fakeSink{}

	orch := newTestOrchestrator(cfg, store, deliverer, sink, nil)
	require.NoError(t, orch.runCycle(context.Background()))

	// 共享自选清单同步进过滤器，健康快照写回共享存储
	assert.Contains(t, orch.stocks.Watchlist(), "NEWSYM")
	assert.NotEmpty(t, store.values[dedup.KeySourceHealth])
}
