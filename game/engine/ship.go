package engine

// Ship is a single vessel on a board. Grid cells hold pointers to the
// same Ship; the board's ship list owns it.
type Ship struct {
	length    int
	hits      int
	footprint []Coordinate
	area      []Coordinate
}

// NewShip creates an undamaged ship of the given length
func NewShip(length int) (*Ship, error) {
	if length < MinShipLength || length > MaxShipLength {
		return nil, &InvalidLengthError{Length: length}
	}
	return &Ship{length: length}, nil
}

// RegisterHit records one hit. Hits on a destroyed ship are ignored.
func (s *Ship) RegisterHit() {
	if !s.IsDestroyed() {
		s.hits++
	}
}

// IsDestroyed reports whether every cell of the ship has been hit
func (s *Ship) IsDestroyed() bool {
	return s.hits == s.length
}

// Length returns the number of cells the ship occupies
func (s *Ship) Length() int {
	return s.length
}

// Hits returns the number of hits taken so far
func (s *Ship) Hits() int {
	return s.hits
}

// Footprint returns the cells the ship occupies
func (s *Ship) Footprint() []Coordinate {
	return append([]Coordinate(nil), s.footprint...)
}

// Area returns the footprint plus its one-cell buffer, clipped to the
// board. These cells are marked attacked when the ship sinks.
func (s *Ship) Area() []Coordinate {
	return append([]Coordinate(nil), s.area...)
}
