/*
Package domain contains the core domain models of the reactless rendering engine.

It defines the declarative side of rendering (Elements and their property bags),
the vocabulary the engine uses to describe its work (effect tags, host mutations,
lifecycle events) and the serializable view of a committed host tree (Snapshot).
This package is kept pure and free of host or scheduling concerns, following
Hexagonal Architecture principles.

# Key Entities

  - Element: An immutable descriptor of a node to render (type tag, props, children).
  - Props: A tagged property bag separating plain attributes, event handlers and children.
  - Listener: An event handler whose identity is its pointer.
  - EffectTag: The host mutation a fiber represents after reconciliation.
  - Mutation: A single primitive change applied to the host tree during commit.
  - Snapshot: A detached, serializable copy of a host subtree.
*/
package domain
