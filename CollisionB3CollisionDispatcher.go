package box3d

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

/// Per-step settings handed to the narrowphase.
type B3DispatcherInfo struct {
	M_timeStep  float64
	M_stepCount int

	/// Fan the narrowphase out over goroutines when there are enough pairs.
	M_enableParallelDispatch bool
}

func MakeB3DispatcherInfo() B3DispatcherInfo {
	return B3DispatcherInfo{
		M_timeStep:               1.0 / 60.0,
		M_enableParallelDispatch: true,
	}
}

type b3PairEntry struct {
	objA *B3CollisionObject
	objB *B3CollisionObject
}

/// Owns the overlapping pairs reported by the broadphase and runs the
/// narrowphase algorithm of each pair.
type B3CollisionDispatcher struct {
	M_collisionConfiguration *B3DefaultCollisionConfiguration

	M_pairs map[B3Pair]b3PairEntry

	/// When set, replaces the group/mask test of NeedsCollision.
	M_contactFilter B3ContactFilterInterface
}

func NewB3CollisionDispatcher(config *B3DefaultCollisionConfiguration) *B3CollisionDispatcher {
	B3Assert(config != nil)
	return &B3CollisionDispatcher{
		M_collisionConfiguration: config,
		M_pairs:                  make(map[B3Pair]b3PairEntry),
	}
}

func (dispatcher B3CollisionDispatcher) GetCollisionConfiguration() *B3DefaultCollisionConfiguration {
	return dispatcher.M_collisionConfiguration
}

func (dispatcher *B3CollisionDispatcher) SetContactFilter(filter B3ContactFilterInterface) {
	dispatcher.M_contactFilter = filter
}

/// Records an overlapping pair. Duplicates are ignored.
func (dispatcher *B3CollisionDispatcher) AddPair(objA, objB *B3CollisionObject) {
	pair := MakeB3Pair(objA.M_broadphaseProxyId, objB.M_broadphaseProxyId)
	if _, ok := dispatcher.M_pairs[pair]; ok {
		return
	}
	if objA.M_broadphaseProxyId > objB.M_broadphaseProxyId {
		objA, objB = objB, objA
	}
	dispatcher.M_pairs[pair] = b3PairEntry{objA: objA, objB: objB}
}

/// Drops every pair that references the proxy.
func (dispatcher *B3CollisionDispatcher) RemovePairsContainingProxy(proxyId int) {
	for pair := range dispatcher.M_pairs {
		if pair.ProxyIdA == proxyId || pair.ProxyIdB == proxyId {
			delete(dispatcher.M_pairs, pair)
		}
	}
}

func (dispatcher B3CollisionDispatcher) GetNumOverlappingPairs() int {
	return len(dispatcher.M_pairs)
}

/// Pairs sorted by proxy ids.
func (dispatcher B3CollisionDispatcher) GetOverlappingPairs() []B3Pair {
	pairs := make([]B3Pair, 0, len(dispatcher.M_pairs))
	for pair := range dispatcher.M_pairs {
		pairs = append(pairs, pair)
	}
	sort.Sort(PairByLessThan(pairs))
	return pairs
}

/// Two rigid bodies collide when at least one of them is awake and dynamic and
/// the filter accepts them.
func (dispatcher B3CollisionDispatcher) NeedsCollision(objA, objB *B3CollisionObject) bool {
	if objA.GetInternalType() != B3CollisionObjectType.E_rigidBody ||
		objB.GetInternalType() != B3CollisionObjectType.E_rigidBody {
		return false
	}

	awakeA := objA.IsActive() && !objA.IsStaticOrKinematicObject()
	awakeB := objB.IsActive() && !objB.IsStaticOrKinematicObject()
	if !awakeA && !awakeB {
		return false
	}

	if dispatcher.M_contactFilter != nil {
		return dispatcher.M_contactFilter.ShouldCollide(objA, objB)
	}
	return B3DefaultShouldCollide(objA, objB)
}

/// Group/mask filtering.
func B3DefaultShouldCollide(objA, objB *B3CollisionObject) bool {
	return objA.M_collisionFilterGroup&objB.M_collisionFilterMask != 0 &&
		objB.M_collisionFilterGroup&objA.M_collisionFilterMask != 0
}

func (dispatcher B3CollisionDispatcher) collide(entry b3PairEntry) *B3ContactManifold {
	config := dispatcher.M_collisionConfiguration
	algorithm := config.GetCollisionAlgorithm(entry.objA.GetShape().GetType(), entry.objB.GetShape().GetType())
	manifold := algorithm(entry.objA, entry.objB, config.GetContactBreakingThreshold())
	if manifold == nil || manifold.GetNumContacts() == 0 {
		return nil
	}
	return manifold
}

/// Prunes pairs whose fat boxes no longer overlap, then runs the narrowphase
/// for every pair that needs it. The manifolds come back in pair order whether
/// or not the work was spread over goroutines.
func (dispatcher *B3CollisionDispatcher) DispatchAllCollisionPairs(broadphase *B3BroadPhase, info *B3DispatcherInfo) []*B3ContactManifold {
	pairs := dispatcher.GetOverlappingPairs()

	work := make([]b3PairEntry, 0, len(pairs))
	for _, pair := range pairs {
		if !broadphase.TestOverlap(pair.ProxyIdA, pair.ProxyIdB) {
			delete(dispatcher.M_pairs, pair)
			continue
		}
		entry := dispatcher.M_pairs[pair]
		if !dispatcher.NeedsCollision(entry.objA, entry.objB) {
			continue
		}
		work = append(work, entry)
	}

	results := make([]*B3ContactManifold, len(work))
	if info != nil && info.M_enableParallelDispatch && len(work) >= B3_parallelDispatchThreshold {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range work {
			i := i
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("narrowphase of proxies %d and %d: %v",
							work[i].objA.M_broadphaseProxyId, work[i].objB.M_broadphaseProxyId, r)
					}
				}()
				results[i] = dispatcher.collide(work[i])
				return nil
			})
		}
		// A failing algorithm panics on the caller's goroutine, as it does
		// on the serial path.
		if err := g.Wait(); err != nil {
			panic(err)
		}
	} else {
		for i, entry := range work {
			results[i] = dispatcher.collide(entry)
		}
	}

	manifolds := make([]*B3ContactManifold, 0, len(results))
	for _, manifold := range results {
		if manifold != nil {
			manifolds = append(manifolds, manifold)
		}
	}
	return manifolds
}
