package setup

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
)

func newSeeded(seed uint64) *Setup {
	s := New()
	s.Set(KeyRandom, rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))
	return s
}

func TestSetupKeysKeepInsertionOrder(t *testing.T) {
	s := New()
	s.Set("b", 1)
	s.Set("a", 2)
	s.Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, s.Keys())

	s.Delete("b")
	assert.Equal(t, []string{"a"}, s.Keys())
	assert.False(t, s.Has("b"))
}

func TestSingle(t *testing.T) {
	s := New()
	s.Set("scalar", "x")
	s.PutList("one", List("y"))
	s.PutList("two", List("a", "b"))

	v, err := s.Single("scalar")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = s.Single("one")
	require.NoError(t, err)
	assert.Equal(t, "y", v)

	_, err = s.Single("two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getSingle(two) but list has size 2")

	_, err = s.Single("missing")
	assert.True(t, errors.Is(err, errors.ErrCodeMissingKey))
}

func TestPutDistributionMismatch(t *testing.T) {
	s := New()
	s.PutList("k", List(1, 2, 3))
	err := s.PutDistribution("k", 0.5, 0.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDistribution))
	assert.Contains(t, err.Error(), "there are 3 values but 2 distribution values")
}

func TestByDistributionSingletonNeverSamples(t *testing.T) {
	s := New() // no RNG: sampling would fail
	s.PutList("k", List("only"))
	for range 10 {
		v, err := s.ByDistribution("k")
		require.NoError(t, err)
		assert.Equal(t, "only", v)
	}
}

func TestByDistributionEmptyListFails(t *testing.T) {
	s := newSeeded(1)
	s.PutList("k", nil)
	_, err := s.ByDistribution("k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "for k is no distribution defined")
}

func TestByDistributionConverges(t *testing.T) {
	s := newSeeded(7)
	require.NoError(t, s.PutWeighted("k", List("a", "b", "c"), 0.6, 0.3, 0.1))

	const n = 20000
	counts := map[string]int{}
	for range n {
		v, err := SampleAs[string](s, "k")
		require.NoError(t, err)
		counts[v]++
	}
	for k, want := range map[string]float64{"a": 0.6, "b": 0.3, "c": 0.1} {
		got := float64(counts[k]) / n
		assert.InDelta(t, want, got, 0.02, "weight of %s", k)
	}
}

func TestByDistributionIsDeterministic(t *testing.T) {
	draw := func() []any {
		s := newSeeded(42)
		s.PutList("k", List(1, 2, 3, 4, 5))
		var out []any
		for range 20 {
			v, err := s.ByDistribution("k")
			require.NoError(t, err)
			out = append(out, v)
		}
		return out
	}
	assert.Equal(t, draw(), draw())
}

func TestTypedAccessors(t *testing.T) {
	s := newSeeded(1)
	s.PutList(PatternBooleanRendering, List(BooleanSymbol))
	s.Set(KeyHeader, true)

	r, err := SampleAs[BooleanRendering](s, PatternBooleanRendering)
	require.NoError(t, err)
	assert.Equal(t, BooleanSymbol, r)

	_, err = SampleAs[NumericRendering](s, PatternBooleanRendering)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTypeMismatch))

	h, err := s.Flag(KeyHeader)
	require.NoError(t, err)
	assert.True(t, h)

	h, err = s.Flag(KeyInstanceRandomOrder)
	require.NoError(t, err)
	assert.False(t, h)

	vs, err := ValuesAs[BooleanRendering](s, PatternBooleanRendering)
	require.NoError(t, err)
	assert.Equal(t, []BooleanRendering{BooleanSymbol}, vs)
}

func TestClone(t *testing.T) {
	s := New()
	s.PutList("k", List(1, 2))
	c := s.Clone()
	c.PutList("k", List(3))
	c.Set("new", true)

	v, _ := s.Value("k")
	assert.Equal(t, []any{1, 2}, v)
	assert.False(t, s.Has("new"))
	assert.Equal(t, []float64{0.5, 0.5}, s.Weights("k"))
}

func TestPropertyConfigURI(t *testing.T) {
	p := NewPropertyConfig(kg.FOAFFirstName)
	uri, err := p.URI()
	require.NoError(t, err)
	assert.Equal(t, kg.FOAFFirstName.Value, uri)
	assert.True(t, p.DistinctObjects)

	multi := NewPropertyConfig(kg.FOAFFirstName, kg.FOAFLastName)
	_, err = multi.URI()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingURI))

	multi.WithURI("uuid:1")
	uri, err = multi.URI()
	require.NoError(t, err)
	assert.Equal(t, "uuid:1", uri)

	single := multi.Without(kg.FOAFFirstName)
	assert.Equal(t, []kg.Term{kg.FOAFLastName}, single.Properties())
	assert.Len(t, multi.Properties(), 2)
}

func TestClassConfig(t *testing.T) {
	a, b := kg.IRI("http://x/A"), kg.IRI("http://x/B")
	c := NewClassConfig("A + B", a, b)
	assert.True(t, c.IsMulti())
	assert.Equal(t, a, c.SingleClass())
	assert.True(t, c.Covers(b))
	assert.False(t, c.Covers(kg.IRI("http://x/C")))
}

func TestSampleUsesWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		assert.Equal(t, 1, sample(rng, []float64{0, 1, 0}))
	}
}
