package component

// Inactive removes an entity from physics, rendering and triggers without
// destroying it. Children of an inactive entity are inactive too.
type Inactive struct{}

var InactiveComponent = NewComponent[Inactive]()
