// Package docver resolves versioned, hierarchical documentation.
// Given a version hint and a path it picks the concrete version of a
// documentation set, loads the matching document and builds the navigation
// menu for that version, with cache directives and uniform not-found
// semantics.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, git/, sqlite/, goldmark/).
package docver
