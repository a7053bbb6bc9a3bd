package shipyard

// Position, Velocity and Health are the component types exercised across this package's test
// files, kept in one place since several tests reuse the same shapes.
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	HP int
}
