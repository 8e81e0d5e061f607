package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// NextAge advances a cell's age counter: a living cell accumulates one
// per consecutive live generation, a dead cell resets to zero.
func NextAge(age int, aliveNext bool) int {
	if !aliveNext {
		return 0
	}
	return age + 1
}
