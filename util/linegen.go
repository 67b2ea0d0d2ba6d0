// Some helpers using closures to generate memory lines
package util

import "github.com/sarchlab/systolic/accel"

// MakeConstLineGen returns a generator that always yields the same line.
func MakeConstLineGen(fill byte) func() []byte {
	return func() []byte {
		line := make([]byte, accel.LineBytes)
		for i := range line {
			line[i] = fill
		}
		return line
	}
}

// MakeRampLineGen returns a generator whose lines ramp byte by byte, each
// line picking up where the previous one left off.
func MakeRampLineGen(start byte) func() []byte {
	current := start
	return func() []byte {
		line := make([]byte, accel.LineBytes)
		for i := range line {
			line[i] = current
			current++
		}
		return line
	}
}
