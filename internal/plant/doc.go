// Package plant provides the typed entity model for a production facility
// configuration: time models, states, processes, queues, resources,
// materials, sinks and sources, aggregated into a Graph.
//
// This package contains data types and the referential-integrity rules over
// them. All other internal packages import plant; plant imports nothing
// internal. This keeps the entity model the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Every entity carries a string ID, unique within its own collection
//   - Collections are slices, not maps: insertion order is preserved for
//     round-trip serialization
//   - Polymorphic categories (time models, resources) are sealed unions;
//     categories whose variants share one shape (states, processes) carry a
//     closed type enum instead
//   - Graph setters re-run only the invariant scoped to the assigned
//     collection and reject the assignment on failure
package plant
