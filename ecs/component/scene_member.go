package component

// SceneMember ties an entity to the scene that spawned it so it can be torn
// down when that scene exits.
type SceneMember struct {
	Scene string
}

var SceneMemberComponent = NewComponent[SceneMember]()
