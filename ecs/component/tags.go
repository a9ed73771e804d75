package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// DeadBodyTag marks an entity spawned where the player previously died.
type DeadBodyTag struct{}

var DeadBodyTagComponent = NewComponent[DeadBodyTag]()

type SpawnPointTag struct{}

var SpawnPointTagComponent = NewComponent[SpawnPointTag]()

// PropTag marks a movable object whose position is rewound on undo.
type PropTag struct{}

var PropTagComponent = NewComponent[PropTag]()

// ContainerTag marks a grouping entity. Name distinguishes the containers a
// level creates (props, spawned objects).
type ContainerTag struct {
	Name string
}

var ContainerTagComponent = NewComponent[ContainerTag]()
