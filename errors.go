/*
Copyright © 2024 the BathyMesh authors.
This file is part of BathyMesh.

BathyMesh is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BathyMesh is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BathyMesh.  If not, see <http://www.gnu.org/licenses/>.
*/

package bathymesh

import "errors"

// Sentinel errors returned by the meshing pipeline. They are wrapped with
// context by the functions that return them, so callers should test with
// errors.Is rather than direct comparison.
var (
	// ErrInvalidDomain indicates a grid domain with a non-positive extent
	// or a non-positive node spacing.
	ErrInvalidDomain = errors.New("invalid grid domain")

	// ErrConfigNotFound indicates that a grid configuration file does
	// not exist.
	ErrConfigNotFound = errors.New("grid configuration not found")

	// ErrConfigKey indicates a missing section or missing mandatory key
	// in a grid configuration file.
	ErrConfigKey = errors.New("missing grid configuration key")

	// ErrInvalidFraction indicates a point-cloud retention fraction
	// outside the interval (0, 1].
	ErrInvalidFraction = errors.New("retention fraction out of range")

	// ErrDegenerateInput indicates a sample set that cannot be
	// triangulated (fewer than 3 non-collinear points).
	ErrDegenerateInput = errors.New("too few non-collinear points to triangulate")

	// ErrNotReady indicates an operation invoked before the mesh reached
	// the state that the operation requires.
	ErrNotReady = errors.New("mesh not ready")
)
