package pattern

import (
	"strings"
)

/*
The builtin library covers the shapes everyone reaches for first: still
lifes to park, oscillators to watch, spaceships and the Gosper gun to
stress boundary handling.
*/
var builtins = []*Pattern{
	mustDecode("#N Glider\nx = 3, y = 3, rule = B3/S23\nbob$2bo$3o!"),
	mustDecode("#N Blinker\nx = 3, y = 1, rule = B3/S23\n3o!"),
	mustDecode("#N Block\nx = 2, y = 2, rule = B3/S23\n2o$2o!"),
	mustDecode("#N Beehive\nx = 4, y = 3, rule = B3/S23\nb2o$o2bo$b2o!"),
	mustDecode("#N Toad\nx = 4, y = 2, rule = B3/S23\nb3o$3o!"),
	mustDecode("#N Beacon\nx = 4, y = 4, rule = B3/S23\n2o$2o$2b2o$2b2o!"),
	mustDecode("#N Pulsar\nx = 13, y = 13, rule = B3/S23\n" +
		"2b3o3b3o2$o4bobo4bo$o4bobo4bo$o4bobo4bo$2b3o3b3o2$2b3o3b3o$" +
		"o4bobo4bo$o4bobo4bo$o4bobo4bo2$2b3o3b3o!"),
	mustDecode("#N LWSS\n#C Lightweight spaceship\nx = 5, y = 4, rule = B3/S23\nbo2bo$o$o3bo$4o!"),
	mustDecode("#N R-pentomino\nx = 3, y = 3, rule = B3/S23\nb2o$2o$bo!"),
	mustDecode("#N Pentadecathlon\nx = 10, y = 3, rule = B3/S23\n2bo4bo$2ob4ob2o$2bo4bo!"),
	mustDecode("#N Gosper glider gun\nx = 36, y = 9, rule = B3/S23\n" +
		"24bo$22bobo$12b2o6b2o12b2o$11bo3bo4b2o12b2o$2o8bo5bo3b2o$" +
		"2o8bo3bob2o4bobo$10bo5bo7bo$11bo3bo$12b2o!"),
}

// Builtins returns the built in pattern library in display order
func Builtins() []*Pattern {
	out := make([]*Pattern, len(builtins))
	copy(out, builtins)
	return out
}

// Lookup finds a builtin by name, ignoring case
func Lookup(name string) (*Pattern, bool) {
	for _, p := range builtins {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

func mustDecode(rle string) *Pattern {
	p, err := DecodeString(rle)
	if err != nil {
		panic(err)
	}
	return p
}
