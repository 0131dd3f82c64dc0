// Package graph defines the scene graph that crate generation writes into.
// A Scene holds named group and mesh nodes arranged in a parent/child
// hierarchy. Every node carries a local transform; world placement is the
// product of the transforms along its parent chain.
package graph
