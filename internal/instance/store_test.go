package instance

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/metrics"
)

type fakeInstance struct {
	closed atomic.Int32
}

func (f *fakeInstance) Close() { f.closed.Add(1) }

func TestStore_AddGetRemove(t *testing.T) {
	s := NewStore[*fakeInstance]("test-basic", 10, time.Hour)
	defer s.Close()

	inst := &fakeInstance{}
	id := s.Add(inst)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LiveInstances.WithLabelValues("test-basic")))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, inst, got)

	assert.True(t, s.Remove(id))
	assert.Equal(t, int32(1), inst.closed.Load())
	assert.False(t, s.Remove(id))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.LiveInstances.WithLabelValues("test-basic")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.InstanceEvictions.WithLabelValues("test-basic")))

	_, err = s.Get(id)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestStore_Lookup(t *testing.T) {
	s := NewStore[*fakeInstance]("test-lookup", 10, time.Hour)
	defer s.Close()

	inst := &fakeInstance{}
	id := s.Add(inst)

	gotID, got, err := s.Lookup(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Same(t, inst, got)

	_, _, err = s.Lookup("not-a-uuid")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, _, err = s.Lookup(uuid.NewString())
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestStore_EvictsOldestWhenFull(t *testing.T) {
	s := NewStore[*fakeInstance]("test-full", 2, time.Hour)
	defer s.Close()

	first := &fakeInstance{}
	firstID := s.Add(first)
	s.Add(&fakeInstance{})
	s.Add(&fakeInstance{})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int32(1), first.closed.Load())
	_, err := s.Get(firstID)
	assert.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InstanceEvictions.WithLabelValues("test-full")))
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := NewStore[*fakeInstance]("test-ttl", 10, 50*time.Millisecond)
	defer s.Close()

	inst := &fakeInstance{}
	id := s.Add(inst)

	require.Eventually(t, func() bool { return inst.closed.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	_, err := s.Get(id)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestStore_CloseTearsDownEverything(t *testing.T) {
	s := NewStore[*fakeInstance]("test-close", 10, time.Hour)

	a, b := &fakeInstance{}, &fakeInstance{}
	s.Add(a)
	s.Add(b)
	s.Close()

	assert.Equal(t, int32(1), a.closed.Load())
	assert.Equal(t, int32(1), b.closed.Load())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.InstanceEvictions.WithLabelValues("test-close")))
}
