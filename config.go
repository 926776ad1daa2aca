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

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// gridKeys holds the configuration key names for one coordinate mode.
type gridKeys struct {
	xo, yo, dx, dy, nx, ny string
}

func (m CoordinateMode) keys() gridKeys {
	if m == Geographic {
		return gridKeys{"lonmin", "latmin", "dlon", "dlat", "nlon", "nlat"}
	}
	return gridKeys{"xmin", "ymin", "dx", "dy", "nx", "ny"}
}

// GridDefaults supplies fallback values for the optional keys of a grid
// configuration section (spacing and node counts). The origin keys are
// always mandatory.
type GridDefaults struct {
	Dx, Dy float64
	Nx, Ny int
}

// ReadGridSpec loads the grid named key from the INI configuration file at
// path. The recognized key names depend on the coordinate mode; see
// CoordinateMode. Missing spacing or count keys fall back to def.
// It returns ErrConfigNotFound if the file does not exist and ErrConfigKey
// if the section or a mandatory origin key is absent.
func ReadGridSpec(path, key string, mode CoordinateMode, def GridDefaults) (GridSpec, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return GridSpec{}, fmt.Errorf("bathymesh: reading grid configuration %s: %w", path, ErrConfigNotFound)
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: reading grid configuration %s: %v", path, err)
	}
	sec, err := cfg.GetSection(key)
	if err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s has no section %q: %w", path, key, ErrConfigKey)
	}

	k := mode.keys()
	s := GridSpec{
		Dx:   def.Dx,
		Dy:   def.Dy,
		Nx:   def.Nx,
		Ny:   def.Ny,
		Mode: mode,
	}
	if s.Xo, err = mandatoryFloat(sec, k.xo); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %w", path, key, err)
	}
	if s.Yo, err = mandatoryFloat(sec, k.yo); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %w", path, key, err)
	}
	if err = optionalFloat(sec, k.dx, &s.Dx); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %v", path, key, err)
	}
	if err = optionalFloat(sec, k.dy, &s.Dy); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %v", path, key, err)
	}
	if err = optionalInt(sec, k.nx, &s.Nx); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %v", path, key, err)
	}
	if err = optionalInt(sec, k.ny, &s.Ny); err != nil {
		return GridSpec{}, fmt.Errorf("bathymesh: grid configuration %s section %q: %v", path, key, err)
	}
	if err = s.validate(); err != nil {
		return GridSpec{}, err
	}
	return s, nil
}

func mandatoryFloat(sec *ini.Section, name string) (float64, error) {
	if !sec.HasKey(name) {
		return 0, fmt.Errorf("key %q: %w", name, ErrConfigKey)
	}
	return sec.Key(name).Float64()
}

func optionalFloat(sec *ini.Section, name string, dst *float64) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Float64()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func optionalInt(sec *ini.Section, name string, dst *int) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Persist writes the grid parameters as a single named section of an INI
// file at path, creating or overwriting the file. Callers that want to
// re-read an existing record instead of replacing it must check for the
// file themselves before calling Persist.
func (s GridSpec) Persist(path, key string) error {
	cfg := ini.Empty()
	sec, err := cfg.NewSection(key)
	if err != nil {
		return fmt.Errorf("bathymesh: persisting grid configuration %s: %v", path, err)
	}
	k := s.Mode.keys()
	for _, kv := range []struct {
		name, value string
	}{
		{k.xo, strconv.FormatFloat(s.Xo, 'f', -1, 64)},
		{k.yo, strconv.FormatFloat(s.Yo, 'f', -1, 64)},
		{k.dx, strconv.FormatFloat(s.Dx, 'f', -1, 64)},
		{k.dy, strconv.FormatFloat(s.Dy, 'f', -1, 64)},
		{k.nx, strconv.Itoa(s.Nx)},
		{k.ny, strconv.Itoa(s.Ny)},
	} {
		if _, err := sec.NewKey(kv.name, kv.value); err != nil {
			return fmt.Errorf("bathymesh: persisting grid configuration %s: %v", path, err)
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("bathymesh: persisting grid configuration %s: %v", path, err)
	}
	return nil
}
