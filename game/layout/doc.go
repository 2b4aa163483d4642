// Package layout reads, validates and applies fleet layouts.
//
// A layout is a JSON document naming one placement per ship of the
// standard fleet:
//
//	{
//	  "name": "corners",
//	  "ships": [
//	    {"row": 0, "col": 0, "length": 5, "horizontal": true},
//	    {"row": 9, "col": 0, "length": 4, "horizontal": true},
//	    ...
//	  ]
//	}
//
// Validation:
//
// A layout is valid when its lengths are exactly 5, 4, 3, 3, 2 and every
// ship is accepted in order by an empty board, which enforces the bounds
// and one-cell buffer rules of the engine.
//
// Usage:
//
//	l, err := layout.Load("layouts/corners.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = l.PlaceInto(m)
//
// Manager serves a directory of layout files through a read-through cache.
package layout
