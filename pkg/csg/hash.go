package csg

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"

	"github.com/glycerine/blake2b"
)

// ContentHash is a blake2b-256 digest identifying a node by structure
// and parameters. Structurally identical subtrees share a hash, which
// is what makes evaluator memoization sound.
type ContentHash [32]byte

func (h ContentHash) String() string { return hex.EncodeToString(h[:]) }

// Short returns a 12-hex-character prefix for diagnostics.
func (h ContentHash) Short() string { return hex.EncodeToString(h[:6]) }

// IsZero reports whether the hash is unset.
func (h ContentHash) IsZero() bool { return h == ContentHash{} }

// hashNode computes the content hash of a node from its kind, payload
// and child hashes. Children must already be hashed (constructors
// guarantee this, since trees are built bottom-up).
func hashNode(n *Node) ContentHash {
	h := blake2b.New256()
	buf := make([]byte, 8)

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf, v)
		h.Write(buf)
	}
	writeF := func(f float64) { writeU64(math.Float64bits(f)) }
	writeS := func(s string) {
		writeU64(uint64(len(s)))
		h.Write([]byte(s))
	}
	writeB := func(b bool) {
		if b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	writeM := func(m Matrix) {
		// An affine matrix is fully determined by the images of the
		// origin and the three basis points.
		for _, p := range []Vec3{{}, {X: 1}, {Y: 1}, {Z: 1}} {
			q := m.MulPosition(p)
			writeF(q.X)
			writeF(q.Y)
			writeF(q.Z)
		}
	}

	writeU64(uint64(n.Kind))
	writeS(n.Name)

	switch d := n.Data.(type) {
	case CuboidData:
		writeF(d.W)
		writeF(d.H)
		writeF(d.D)
		writeB(d.Center)
	case CylinderData:
		writeF(d.D1)
		writeF(d.D2)
		writeF(d.H)
		writeB(d.Center)
		writeU64(uint64(d.Segments))
	case SphereData:
		writeF(d.R)
		writeU64(uint64(d.Segments))
	case PolygonData:
		writeU64(uint64(len(d.Points)))
		for _, p := range d.Points {
			writeF(p.X)
			writeF(p.Y)
		}
	case TransformData:
		writeM(d.M)
	case BooleanData:
		writeU64(uint64(d.Op))
	case HullData, GroupData:
	case ExtrudeData:
		writeU64(uint64(d.Mode))
		writeF(d.Height)
		writeF(d.Twist)
		writeF(d.Scale)
		writeF(d.Angle)
		writeU64(uint64(d.Segments))
	case ModuleData:
		writeS(d.Module)
		keys := make([]string, 0, len(d.Args))
		for k := range d.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeS(k)
			writeS(fmt.Sprintf("%v", d.Args[k]))
		}
	case ResolutionData:
		writeF(d.Res.AngleDeg)
		writeF(d.Res.SizeMM)
		writeU64(uint64(d.Res.Segments))
	case nil:
	default:
		writeS(fmt.Sprintf("%#v", n.Data))
	}

	for _, c := range n.Children {
		ch := c.Hash()
		h.Write(ch[:])
	}

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

// MemoKey derives the memoization key for a node materialized under the
// given effective resolution.
func MemoKey(n *Node, res Resolution) ContentHash {
	h := blake2b.New256()
	nh := n.Hash()
	h.Write(nh[:])

	buf := make([]byte, 8)
	for _, f := range []float64{res.AngleDeg, res.SizeMM, float64(res.Segments)} {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}
