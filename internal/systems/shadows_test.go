package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadowSet_InsertDisjoint(t *testing.T) {
	var s ShadowSet
	s.Insert(100, 50)
	s.Insert(300, 200)

	assert.Equal(t, []ShadowInterval{{100, 50}, {300, 200}}, s.Intervals())
}

func TestShadowSet_MergeWithinTolerance(t *testing.T) {
	var s ShadowSet
	s.Insert(100, 50)
	s.Insert(151, 101) // Зазор в 1 единицу - сливается
	require.Equal(t, 1, s.Len())
	assert.Equal(t, ShadowInterval{151, 50}, s.Intervals()[0])

	s.Insert(49, 10)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, ShadowInterval{151, 10}, s.Intervals()[0])

	s.Insert(500, 153) // Зазор в 2 единицы - отдельный интервал
	assert.Equal(t, 2, s.Len())
}

func TestShadowSet_TransitiveMerge(t *testing.T) {
	var s ShadowSet
	s.Insert(100, 90)
	s.Insert(300, 290)
	s.Insert(200, 190)
	s.Insert(1000, 900)
	require.Equal(t, 4, s.Len())

	// Мост через три интервала сразу
	s.Insert(295, 95)

	assert.Equal(t, []ShadowInterval{{300, 90}, {1000, 900}}, s.Intervals())
}

func TestShadowSet_InsertContainingExisting(t *testing.T) {
	var s ShadowSet
	s.Insert(200, 150)
	s.Insert(400, 100)

	assert.Equal(t, []ShadowInterval{{400, 100}}, s.Intervals())
}

func TestShadowSet_WrapSplit(t *testing.T) {
	var s ShadowSet
	s.Insert(300000, 3300000)

	assert.Equal(t, []ShadowInterval{{300000, 0}, {Circle, 3300000}}, s.Intervals())
	assert.True(t, s.Covers(150000, 3450000))
	assert.False(t, s.Covers(150000, 3200000), "right half sticks out of the shadow")
	assert.True(t, s.Covers(200000, 100000))
}

func TestShadowSet_StrictlyInside(t *testing.T) {
	var s ShadowSet
	s.Insert(100, 50)

	assert.True(t, s.StrictlyInside(75))
	assert.False(t, s.StrictlyInside(100), "bounds are not inside")
	assert.False(t, s.StrictlyInside(50), "bounds are not inside")
	assert.False(t, s.StrictlyInside(10))
}

func TestShadowSet_NoOverlapInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var s ShadowSet

	for i := 0; i < 2000; i++ {
		left := uint32(rng.Int63n(int64(Circle)))
		width := uint32(rng.Int63n(int64(Circle / 40)))
		right := left - width
		if width > left {
			right = Circle - (width - left) // Сектор через 0
		}
		s.Insert(left, right)

		a, b, bad := s.Overlapping()
		require.False(t, bad, "insert #%d (%d,%d) left overlapping %v and %v", i, left, right, a, b)
	}
}

func TestHexSpanAt(t *testing.T) {
	// Восточный гекс первого кольца проходит через 0
	sp := hexSpanAt(1, 0)
	assert.Equal(t, uint32(300000), sp.left)
	assert.Equal(t, uint32(3300000), sp.right)
	assert.Equal(t, uint32(0), sp.middle)

	// Юго-восточный
	sp = hexSpanAt(1, 1)
	assert.Equal(t, uint32(3300000), sp.left)
	assert.Equal(t, uint32(2700000), sp.right)
	assert.Equal(t, uint32(3000000), sp.middle)

	// Соседние гексы кольца соприкасаются
	for dist := 1; dist <= 40; dist++ {
		for i := 0; i < 6*dist-1; i++ {
			a, b := hexSpanAt(dist, i), hexSpanAt(dist, i+1)
			diff := int64(a.right) - int64(b.left)
			assert.LessOrEqual(t, abs(int(diff)), 1, "dist %d hex %d", dist, i)
		}
	}
}
