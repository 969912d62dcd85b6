package mindmap

import (
	mm "github.com/studybuddy/studybuddy/internal/mindmap"
)

// mapReadyMsg is sent when a map generation request finishes. Seq ties
// the result to the request that issued it.
type mapReadyMsg struct {
	Seq int
	Map *mm.Map
	Err error
}

// explanationMsg is sent when a branch explanation request finishes.
// The cache applies it only while (Topic, Size) still matches the
// current selection.
type explanationMsg struct {
	Topic string
	Size  mm.Size
	Text  string
	Err   error
}
