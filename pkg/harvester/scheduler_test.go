package harvester

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store/mocks"
)

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, src *model.DataSource) (*model.DataSourceImport, error) {
	r.started <- struct{}{}
	<-r.release
	return &model.DataSourceImport{DataSourceID: src.ID, Status: model.ImportStatusOk}, nil
}

func TestSchedulerSync(t *testing.T) {
	st := &mocks.DataSourcesStore{}
	st.On("ListDataSources", true).Return([]model.DataSource{
		{ID: 1, FrequencyInDays: 1},
		{ID: 2, FrequencyInDays: 7},
	}, nil).Once()

	s := NewScheduler(st, nil, nil)
	require.NoError(t, s.Sync(context.Background()))
	assert.Equal(t, map[uint]string{1: "@every 24h0m0s", 2: "@every 168h0m0s"}, s.Entries())

	st.On("ListDataSources", true).Return([]model.DataSource{
		{ID: 2, FrequencyInDays: 2},
	}, nil).Once()
	require.NoError(t, s.Sync(context.Background()))
	assert.Equal(t, map[uint]string{2: "@every 48h0m0s"}, s.Entries())
	assert.Len(t, s.cron.Entries(), 1)
}

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	st := &mocks.DataSourcesStore{}
	st.On("FetchDataSource", uint(1)).Return(&model.DataSource{ID: 1}, nil)

	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(st, runner, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		imp, err := s.RunNow(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, model.ImportStatusOk, imp.Status)
	}()
	<-runner.started

	_, err := s.RunNow(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(runner.release)
	wg.Wait()

	go func() { <-runner.started }()
	_, err = s.RunNow(context.Background(), 1)
	assert.NoError(t, err)
}
