// Package csg defines the immutable constructive solid geometry tree
// evaluated by pkg/eval, along with the resolution context, content
// hashing, and the error taxonomy shared by the geometry packages.
package csg
