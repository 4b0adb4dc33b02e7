package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// Called for each proxy overlapping a query box. Return false to stop the query.
type B3TreeQueryCallback func(proxyId int) bool

const B3_nullNode = -1

/// A node in the dynamic tree. Leaves hold a proxy, internal nodes hold exactly two children.
type B3TreeNode struct {
	/// Enlarged AABB
	Aabb B3AABB

	UserData interface{}

	// Parent while allocated, next free slot while on the free list.
	Parent int
	Next   int

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node B3TreeNode) IsLeaf() bool {
	return node.Child1 == B3_nullNode
}

/// A dynamic AABB tree broad-phase in three dimensions. Leaves store fat boxes
/// so a proxy can move a little without being reinserted. Insertion picks the
/// sibling that minimizes the added surface area, then the path to the root is
/// rebalanced with AVL style rotations.
type B3DynamicTree struct {
	M_root int

	M_nodes     []B3TreeNode
	M_nodeCount int
	M_freeList  int

	M_insertionCount int
}

func MakeB3DynamicTree() B3DynamicTree {
	tree := B3DynamicTree{
		M_root:     B3_nullNode,
		M_freeList: B3_nullNode,
	}
	tree.grow(16)
	return tree
}

// Appends n free nodes and links them in front of the free list.
func (tree *B3DynamicTree) grow(n int) {
	first := len(tree.M_nodes)
	tree.M_nodes = append(tree.M_nodes, make([]B3TreeNode, n)...)
	for i := len(tree.M_nodes) - 1; i >= first; i-- {
		tree.M_nodes[i].Next = tree.M_freeList
		tree.M_nodes[i].Height = -1
		tree.M_freeList = i
	}
}

func (tree *B3DynamicTree) allocateNode() int {
	if tree.M_freeList == B3_nullNode {
		B3Assert(tree.M_nodeCount == len(tree.M_nodes))
		tree.grow(len(tree.M_nodes))
	}

	nodeId := tree.M_freeList
	node := &tree.M_nodes[nodeId]
	tree.M_freeList = node.Next
	*node = B3TreeNode{
		Parent: B3_nullNode,
		Next:   B3_nullNode,
		Child1: B3_nullNode,
		Child2: B3_nullNode,
	}
	tree.M_nodeCount++
	return nodeId
}

func (tree *B3DynamicTree) freeNode(nodeId int) {
	B3Assert(0 <= nodeId && nodeId < len(tree.M_nodes))
	B3Assert(0 < tree.M_nodeCount)
	tree.M_nodes[nodeId] = B3TreeNode{
		Next:   tree.M_freeList,
		Height: -1,
	}
	tree.M_freeList = nodeId
	tree.M_nodeCount--
}

func (tree *B3DynamicTree) checkProxy(proxyId int) {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	B3Assert(tree.M_nodes[proxyId].Height == 0)
}

/// Create a proxy. Provide a tight fitting AABB and a userData pointer.
func (tree *B3DynamicTree) CreateProxy(aabb B3AABB, userData interface{}) int {
	proxyId := tree.allocateNode()
	tree.M_nodes[proxyId].Aabb = aabb.Expand(B3_aabbExtension)
	tree.M_nodes[proxyId].UserData = userData
	tree.insertLeaf(proxyId)
	return proxyId
}

/// Destroy a proxy. This asserts if the id is invalid.
func (tree *B3DynamicTree) DestroyProxy(proxyId int) {
	tree.checkProxy(proxyId)
	tree.removeLeaf(proxyId)
	tree.freeNode(proxyId)
}

/// Move a proxy with a swepted AABB. If the proxy has moved outside of its fattened AABB,
/// then the proxy is removed from the tree and re-inserted. Otherwise
/// the function returns immediately.
/// @return true if the proxy was re-inserted.
func (tree *B3DynamicTree) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) bool {
	tree.checkProxy(proxyId)

	if tree.M_nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.removeLeaf(proxyId)

	// Predict the motion along the displacement.
	b := aabb.Expand(B3_aabbExtension)
	d := displacement.Mul(B3_aabbMultiplier)
	for axis := 0; axis < 3; axis++ {
		if d[axis] < 0.0 {
			b.LowerBound[axis] += d[axis]
		} else {
			b.UpperBound[axis] += d[axis]
		}
	}

	tree.M_nodes[proxyId].Aabb = b
	tree.insertLeaf(proxyId)
	return true
}

func (tree B3DynamicTree) GetUserData(proxyId int) interface{} {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	return tree.M_nodes[proxyId].UserData
}

func (tree B3DynamicTree) GetFatAABB(proxyId int) B3AABB {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	return tree.M_nodes[proxyId].Aabb
}

/// Query an AABB for overlapping proxies. The callback is called for each proxy
/// that overlaps the supplied AABB.
func (tree *B3DynamicTree) Query(queryCallback B3TreeQueryCallback, aabb B3AABB) {
	stack := NewB3GrowableStack[int](256)
	stack.Push(tree.M_root)

	for {
		nodeId, ok := stack.Pop()
		if !ok {
			return
		}
		if nodeId == B3_nullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]
		if !B3TestOverlapBoundingBoxes(node.Aabb, aabb) {
			continue
		}

		if node.IsLeaf() {
			if !queryCallback(nodeId) {
				return
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

// Cost of making leafAABB a sibling of the subtree at child.
func (tree B3DynamicTree) descendCost(child int, leafAABB B3AABB, inheritanceCost float64) float64 {
	var combined B3AABB
	combined.CombineTwoInPlace(leafAABB, tree.M_nodes[child].Aabb)
	if tree.M_nodes[child].IsLeaf() {
		return combined.GetSurfaceArea() + inheritanceCost
	}
	return combined.GetSurfaceArea() - tree.M_nodes[child].Aabb.GetSurfaceArea() + inheritanceCost
}

func (tree *B3DynamicTree) insertLeaf(leaf int) {
	tree.M_insertionCount++

	if tree.M_root == B3_nullNode {
		tree.M_root = leaf
		tree.M_nodes[leaf].Parent = B3_nullNode
		return
	}

	// Find the best sibling for this node
	leafAABB := tree.M_nodes[leaf].Aabb
	index := tree.M_root
	for !tree.M_nodes[index].IsLeaf() {
		node := tree.M_nodes[index]

		var combined B3AABB
		combined.CombineTwoInPlace(node.Aabb, leafAABB)
		combinedArea := combined.GetSurfaceArea()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - node.Aabb.GetSurfaceArea())

		cost1 := tree.descendCost(node.Child1, leafAABB, inheritanceCost)
		cost2 := tree.descendCost(node.Child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = node.Child1
		} else {
			index = node.Child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.M_nodes[sibling].Parent
	newParent := tree.allocateNode()
	tree.M_nodes[newParent].Parent = oldParent
	tree.M_nodes[newParent].Aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[sibling].Aabb)
	tree.M_nodes[newParent].Height = tree.M_nodes[sibling].Height + 1
	tree.M_nodes[newParent].Child1 = sibling
	tree.M_nodes[newParent].Child2 = leaf
	tree.M_nodes[sibling].Parent = newParent
	tree.M_nodes[leaf].Parent = newParent

	if oldParent == B3_nullNode {
		tree.M_root = newParent
	} else {
		tree.replaceChild(oldParent, sibling, newParent)
	}

	tree.refit(tree.M_nodes[leaf].Parent)
}

func (tree *B3DynamicTree) removeLeaf(leaf int) {
	if leaf == tree.M_root {
		tree.M_root = B3_nullNode
		return
	}

	parent := tree.M_nodes[leaf].Parent
	grandParent := tree.M_nodes[parent].Parent
	sibling := tree.M_nodes[parent].Child1
	if sibling == leaf {
		sibling = tree.M_nodes[parent].Child2
	}

	tree.M_nodes[sibling].Parent = grandParent
	tree.freeNode(parent)

	if grandParent == B3_nullNode {
		tree.M_root = sibling
		return
	}

	tree.replaceChild(grandParent, parent, sibling)
	tree.refit(grandParent)
}

func (tree *B3DynamicTree) replaceChild(parent, oldChild, newChild int) {
	if tree.M_nodes[parent].Child1 == oldChild {
		tree.M_nodes[parent].Child1 = newChild
	} else {
		B3Assert(tree.M_nodes[parent].Child2 == oldChild)
		tree.M_nodes[parent].Child2 = newChild
	}
}

// Walks from index to the root, rebalancing and refitting boxes and heights.
func (tree *B3DynamicTree) refit(index int) {
	for index != B3_nullNode {
		index = tree.balance(index)
		tree.fixNode(index)
		index = tree.M_nodes[index].Parent
	}
}

func (tree *B3DynamicTree) fixNode(index int) {
	node := &tree.M_nodes[index]
	B3Assert(node.Child1 != B3_nullNode)
	B3Assert(node.Child2 != B3_nullNode)
	c1 := tree.M_nodes[node.Child1]
	c2 := tree.M_nodes[node.Child2]
	node.Height = 1 + MaxInt(c1.Height, c2.Height)
	node.Aabb.CombineTwoInPlace(c1.Aabb, c2.Aabb)
}

// Performs a left or right rotation if node iA is imbalanced.
// Returns the new root index of the subtree.
func (tree *B3DynamicTree) balance(iA int) int {
	B3Assert(iA != B3_nullNode)

	A := tree.M_nodes[iA]
	if A.IsLeaf() || A.Height < 2 {
		return iA
	}

	balance := tree.M_nodes[A.Child2].Height - tree.M_nodes[A.Child1].Height
	switch {
	case balance > 1:
		return tree.rotateUp(iA, A.Child2, A.Child1, true)
	case balance < -1:
		return tree.rotateUp(iA, A.Child1, A.Child2, false)
	}
	return iA
}

// Rotates the heavy child iC of iA above it. iB is the light child of iA.
// When heavyIsChild2 is true iC replaces iA's second slot, otherwise its first.
func (tree *B3DynamicTree) rotateUp(iA, iC, iB int, heavyIsChild2 bool) int {
	iF := tree.M_nodes[iC].Child1
	iG := tree.M_nodes[iC].Child2
	B3Assert(0 <= iF && iF < len(tree.M_nodes))
	B3Assert(0 <= iG && iG < len(tree.M_nodes))

	// Swap A and C
	parent := tree.M_nodes[iA].Parent
	tree.M_nodes[iC].Parent = parent
	tree.M_nodes[iA].Parent = iC
	if parent == B3_nullNode {
		tree.M_root = iC
	} else {
		tree.replaceChild(parent, iA, iC)
	}

	// The taller grandchild stays under C, the other one moves under A.
	keep, move := iF, iG
	if tree.M_nodes[iG].Height > tree.M_nodes[iF].Height {
		keep, move = iG, iF
	}

	tree.M_nodes[iC].Child1 = iA
	tree.M_nodes[iC].Child2 = keep
	if heavyIsChild2 {
		tree.M_nodes[iA].Child1 = iB
		tree.M_nodes[iA].Child2 = move
	} else {
		tree.M_nodes[iA].Child1 = move
		tree.M_nodes[iA].Child2 = iB
	}
	tree.M_nodes[move].Parent = iA

	tree.fixNode(iA)
	tree.fixNode(iC)
	return iC
}

/// Compute the height of the binary tree in O(N) time. Should not be called often.
func (tree B3DynamicTree) GetHeight() int {
	if tree.M_root == B3_nullNode {
		return 0
	}
	return tree.M_nodes[tree.M_root].Height
}

/// Get the ratio of the sum of the node areas to the root area.
func (tree B3DynamicTree) GetAreaRatio() float64 {
	if tree.M_root == B3_nullNode {
		return 0.0
	}

	rootArea := tree.M_nodes[tree.M_root].Aabb.GetSurfaceArea()
	totalArea := 0.0
	for _, node := range tree.M_nodes {
		if node.Height < 0 {
			continue
		}
		totalArea += node.Aabb.GetSurfaceArea()
	}

	if rootArea == 0.0 {
		return 0.0
	}
	return totalArea / rootArea
}

/// Get the maximum balance of an node in the tree. The balance is the difference
/// in height of the two children of a node.
func (tree B3DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for _, node := range tree.M_nodes {
		if node.Height <= 1 {
			continue
		}
		B3Assert(!node.IsLeaf())
		balance := AbsInt(tree.M_nodes[node.Child2].Height - tree.M_nodes[node.Child1].Height)
		maxBalance = MaxInt(maxBalance, balance)
	}
	return maxBalance
}

func (tree B3DynamicTree) computeHeight(nodeId int) int {
	node := tree.M_nodes[nodeId]
	if node.IsLeaf() {
		return 0
	}
	return 1 + MaxInt(tree.computeHeight(node.Child1), tree.computeHeight(node.Child2))
}

/// Validate this tree. For testing.
func (tree B3DynamicTree) Validate() {
	if tree.M_root == B3_nullNode {
		B3Assert(tree.M_nodeCount == 0)
		return
	}

	B3Assert(tree.M_nodes[tree.M_root].Parent == B3_nullNode)

	stack := NewB3GrowableStack[int](64)
	stack.Push(tree.M_root)
	visited := 0
	for {
		index, ok := stack.Pop()
		if !ok {
			break
		}
		visited++
		node := tree.M_nodes[index]
		if node.IsLeaf() {
			B3Assert(node.Child2 == B3_nullNode)
			B3Assert(node.Height == 0)
			continue
		}

		c1 := tree.M_nodes[node.Child1]
		c2 := tree.M_nodes[node.Child2]
		B3Assert(c1.Parent == index && c2.Parent == index)
		B3Assert(node.Height == 1+MaxInt(c1.Height, c2.Height))
		B3Assert(node.Aabb.Contains(c1.Aabb) && node.Aabb.Contains(c2.Aabb))
		stack.Push(node.Child1)
		stack.Push(node.Child2)
	}

	B3Assert(visited == tree.M_nodeCount)
	B3Assert(tree.GetHeight() == tree.computeHeight(tree.M_root))

	freeCount := 0
	for freeIndex := tree.M_freeList; freeIndex != B3_nullNode; freeIndex = tree.M_nodes[freeIndex].Next {
		freeCount++
	}
	B3Assert(tree.M_nodeCount+freeCount == len(tree.M_nodes))
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
