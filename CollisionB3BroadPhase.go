package box3d

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type B3BroadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

/// A candidate pair of proxies. ProxyIdA is always the smaller id.
type B3Pair struct {
	ProxyIdA int
	ProxyIdB int
}

func MakeB3Pair(proxyA, proxyB int) B3Pair {
	return B3Pair{
		ProxyIdA: MinInt(proxyA, proxyB),
		ProxyIdB: MaxInt(proxyA, proxyB),
	}
}

const E_nullProxy = -1

type PairByLessThan []B3Pair

func (a PairByLessThan) Len() int      { return len(a) }
func (a PairByLessThan) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a PairByLessThan) Less(i, j int) bool {
	return B3PairLessThan(a[i], a[j])
}

/// This is used to sort pairs.
func B3PairLessThan(pair1 B3Pair, pair2 B3Pair) bool {
	if pair1.ProxyIdA != pair2.ProxyIdA {
		return pair1.ProxyIdA < pair2.ProxyIdA
	}
	return pair1.ProxyIdB < pair2.ProxyIdB
}

/// The broad-phase is used for computing pairs and performing volume queries.
/// It keeps a buffer of proxies that moved since the last UpdatePairs call and
/// only those are queried against the tree.
type B3BroadPhase struct {
	M_tree B3DynamicTree

	M_proxyCount int

	M_moveBuffer []int
	M_pairBuffer []B3Pair

	M_queryProxyId int
}

func MakeB3BroadPhase() B3BroadPhase {
	return B3BroadPhase{
		M_tree:       MakeB3DynamicTree(),
		M_moveBuffer: make([]int, 0, 16),
		M_pairBuffer: make([]B3Pair, 0, 16),
	}
}

func NewB3BroadPhase() *B3BroadPhase {
	bp := MakeB3BroadPhase()
	return &bp
}

/// Create a proxy with an initial AABB. Pairs are not reported until
/// UpdatePairs is called.
func (bp *B3BroadPhase) CreateProxy(aabb B3AABB, userData interface{}) int {
	proxyId := bp.M_tree.CreateProxy(aabb, userData)
	bp.M_proxyCount++
	bp.bufferMove(proxyId)
	return proxyId
}

/// Destroy a proxy. It is up to the client to remove any pairs.
func (bp *B3BroadPhase) DestroyProxy(proxyId int) {
	bp.unBufferMove(proxyId)
	bp.M_proxyCount--
	bp.M_tree.DestroyProxy(proxyId)
}

/// Call MoveProxy as many times as you like, then when you are done
/// call UpdatePairs to finalized the proxy pairs (for your time step).
func (bp *B3BroadPhase) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) {
	if bp.M_tree.MoveProxy(proxyId, aabb, displacement) {
		bp.bufferMove(proxyId)
	}
}

/// Call to trigger a re-processing of it's pairs on the next call to UpdatePairs.
func (bp *B3BroadPhase) TouchProxy(proxyId int) {
	bp.bufferMove(proxyId)
}

func (bp *B3BroadPhase) bufferMove(proxyId int) {
	bp.M_moveBuffer = append(bp.M_moveBuffer, proxyId)
}

func (bp *B3BroadPhase) unBufferMove(proxyId int) {
	for i, id := range bp.M_moveBuffer {
		if id == proxyId {
			bp.M_moveBuffer[i] = E_nullProxy
		}
	}
}

func (bp B3BroadPhase) GetUserData(proxyId int) interface{} {
	return bp.M_tree.GetUserData(proxyId)
}

func (bp B3BroadPhase) GetFatAABB(proxyId int) B3AABB {
	return bp.M_tree.GetFatAABB(proxyId)
}

/// Test overlap of fat AABBs.
func (bp B3BroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return B3TestOverlapBoundingBoxes(
		bp.M_tree.GetFatAABB(proxyIdA),
		bp.M_tree.GetFatAABB(proxyIdB),
	)
}

func (bp B3BroadPhase) GetProxyCount() int {
	return bp.M_proxyCount
}

func (bp B3BroadPhase) GetTreeHeight() int {
	return bp.M_tree.GetHeight()
}

func (bp B3BroadPhase) GetTreeBalance() int {
	return bp.M_tree.GetMaxBalance()
}

func (bp B3BroadPhase) GetTreeQuality() float64 {
	return bp.M_tree.GetAreaRatio()
}

func (bp *B3BroadPhase) Query(callback B3TreeQueryCallback, aabb B3AABB) {
	bp.M_tree.Query(callback, aabb)
}

/// Update the pairs. This results in pair callbacks. This can only add pairs.
/// Pairs are reported once each, ordered by (ProxyIdA, ProxyIdB).
func (bp *B3BroadPhase) UpdatePairs(addPairCallback B3BroadPhaseAddPairCallback) {
	bp.M_pairBuffer = bp.M_pairBuffer[:0]

	for _, proxyId := range bp.M_moveBuffer {
		if proxyId == E_nullProxy {
			continue
		}
		bp.M_queryProxyId = proxyId

		// Query with the fat AABB so that we don't fail to create a
		// pair that may touch later.
		bp.M_tree.Query(bp.queryCallback, bp.M_tree.GetFatAABB(proxyId))
	}

	bp.M_moveBuffer = bp.M_moveBuffer[:0]

	// Sort the pair buffer to expose duplicates.
	sort.Sort(PairByLessThan(bp.M_pairBuffer))

	for i, pair := range bp.M_pairBuffer {
		if i > 0 && pair == bp.M_pairBuffer[i-1] {
			continue
		}
		addPairCallback(
			bp.M_tree.GetUserData(pair.ProxyIdA),
			bp.M_tree.GetUserData(pair.ProxyIdB),
		)
	}
}

// Called from the tree query while gathering pairs.
func (bp *B3BroadPhase) queryCallback(proxyId int) bool {
	// A proxy cannot form a pair with itself.
	if proxyId == bp.M_queryProxyId {
		return true
	}
	bp.M_pairBuffer = append(bp.M_pairBuffer, MakeB3Pair(proxyId, bp.M_queryProxyId))
	return true
}
