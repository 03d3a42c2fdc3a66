package ownerid

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwner struct {
	id   ID
	name string
}

func (o *fakeOwner) DocumentOwnerID() ID      { return o.id }
func (o *fakeOwner) SetDocumentOwnerID(id ID) { o.id = id }
func (o *fakeOwner) DisplayName() string      { return o.name }

func TestProvider_Assign(t *testing.T) {
	p := NewProvider()

	owner := &fakeOwner{name: "Acme"}
	id, err := p.Assign(owner, nil)
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.True(t, id.Equal(owner.DocumentOwnerID()))
}

func TestProvider_Assign_NilOwner(t *testing.T) {
	p := NewProvider()
	_, err := p.Assign(nil, nil)
	assert.Error(t, err)
}

func TestProvider_Assign_ExistingIsImmutable(t *testing.T) {
	p := NewProvider()

	existing := MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")
	owner := &fakeOwner{id: existing}

	id, err := p.Assign(owner, nil)
	require.NoError(t, err)
	assert.True(t, existing.Equal(id), "a set identifier must never be regenerated")
	assert.True(t, existing.Equal(owner.DocumentOwnerID()))
}

func TestProvider_Assign_RetriesOnCollision(t *testing.T) {
	p := NewProvider(WithMaxAttempts(5))

	collisions := 2
	probes := 0
	inUse := func(ID) (bool, error) {
		probes++
		return probes <= collisions, nil
	}

	owner := &fakeOwner{}
	id, err := p.Assign(owner, inUse)
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.Equal(t, collisions+1, probes)
}

func TestProvider_Assign_Exhausted(t *testing.T) {
	p := NewProvider(WithMaxAttempts(3))

	probes := 0
	alwaysTaken := func(ID) (bool, error) {
		probes++
		return true, nil
	}

	owner := &fakeOwner{}
	_, err := p.Assign(owner, alwaysTaken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssignExhausted))
	assert.Equal(t, 3, probes)
	assert.True(t, owner.DocumentOwnerID().IsZero(), "exhaustion must never apply a non-unique identifier")
}

func TestProvider_Assign_ProbeError(t *testing.T) {
	p := NewProvider()

	probeErr := errors.New("connection reset")
	_, err := p.Assign(&fakeOwner{}, func(ID) (bool, error) {
		return false, probeErr
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, probeErr))
}

func TestProvider_Assign_ConcurrentDistinct(t *testing.T) {
	// Two owners created concurrently both receive distinct, non-zero
	// identifiers.
	p := NewProvider()

	const n = 50
	owners := make([]*fakeOwner, n)
	for i := range owners {
		owners[i] = &fakeOwner{}
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Assign(owners[i], nil)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i, owner := range owners {
		require.NoError(t, errs[i])
		id := owner.DocumentOwnerID()
		require.False(t, id.IsZero())
		assert.False(t, seen[id.String()], "duplicate identifier %s", id)
		seen[id.String()] = true
	}
}

func TestProvider_Assign_GeneratorFailure(t *testing.T) {
	genErr := errors.New("entropy exhausted")
	p := NewProvider(withGenerator(func() (ID, error) {
		return ID{}, genErr
	}))

	_, err := p.Assign(&fakeOwner{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, genErr))
}
