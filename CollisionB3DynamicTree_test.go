package box3d_test

import (
	"math/rand"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func randomBox(r *rand.Rand, extent float64) box3d.B3AABB {
	center := mgl64.Vec3{r.Float64() * extent, r.Float64() * extent, r.Float64() * extent}
	half := mgl64.Vec3{0.1 + r.Float64(), 0.1 + r.Float64(), 0.1 + r.Float64()}
	return box3d.MakeB3AABB(center.Sub(half), center.Add(half))
}

func TestDynamicTree(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tree := box3d.MakeB3DynamicTree()

	const n = 200
	ids := make([]int, 0, n)
	boxes := make(map[int]box3d.B3AABB, n)
	for i := 0; i < n; i++ {
		aabb := randomBox(r, 50)
		id := tree.CreateProxy(aabb, i)
		ids = append(ids, id)
		boxes[id] = aabb
	}
	tree.Validate()

	if h := tree.GetHeight(); h > n/4 {
		t.Fatalf("tree too tall for %d proxies: %d (max balance %d)", n, h, tree.GetMaxBalance())
	}
	if ratio := tree.GetAreaRatio(); ratio < 1 {
		t.Fatalf("area ratio %v below the root area", ratio)
	}

	for _, id := range ids {
		if !tree.GetFatAABB(id).Contains(boxes[id]) {
			t.Fatalf("proxy %d: fat box must contain the tight box", id)
		}
	}

	// Move half of them far away, the rest a little.
	for i, id := range ids {
		var aabb box3d.B3AABB
		if i%2 == 0 {
			aabb = randomBox(r, 50)
			aabb.LowerBound = aabb.LowerBound.Add(mgl64.Vec3{100, 0, 0})
			aabb.UpperBound = aabb.UpperBound.Add(mgl64.Vec3{100, 0, 0})
			if !tree.MoveProxy(id, aabb, mgl64.Vec3{1, 0, 0}) {
				t.Fatalf("proxy %d left its fat box without being re-inserted", id)
			}
		} else {
			aabb = boxes[id]
			if tree.MoveProxy(id, aabb, mgl64.Vec3{}) {
				t.Fatalf("proxy %d was re-inserted without leaving its fat box", id)
			}
		}
		boxes[id] = aabb
	}
	tree.Validate()

	// Brute force against the tree query.
	query := box3d.MakeB3AABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{25, 25, 25})
	want := map[int]bool{}
	for _, id := range ids {
		if box3d.B3TestOverlapBoundingBoxes(tree.GetFatAABB(id), query) {
			want[id] = true
		}
	}
	got := map[int]bool{}
	tree.Query(func(id int) bool {
		got[id] = true
		return true
	}, query)
	if len(got) != len(want) {
		t.Fatalf("query found %d proxies, brute force %d", len(got), len(want))
	}
	for id := range want {
		if !got[id] {
			t.Fatalf("query missed proxy %d", id)
		}
	}

	for i, id := range ids {
		if tree.GetUserData(id).(int) != i {
			t.Fatalf("proxy %d lost its user data", id)
		}
		tree.DestroyProxy(id)
		if i%50 == 0 {
			tree.Validate()
		}
	}
	tree.Validate()
	if tree.GetHeight() != 0 {
		t.Fatalf("empty tree height = %d", tree.GetHeight())
	}
}

func TestDynamicTreeQueryStops(t *testing.T) {
	tree := box3d.MakeB3DynamicTree()
	for i := 0; i < 10; i++ {
		tree.CreateProxy(box3d.MakeB3AABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), i)
	}

	calls := 0
	tree.Query(func(int) bool {
		calls++
		return false
	}, box3d.MakeB3AABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	if calls != 1 {
		t.Fatalf("query must stop when the callback returns false, got %d calls", calls)
	}
}
