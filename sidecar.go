/*
 * sidecar.go, part of govasp.
 *
 * Copyright 2024 The govasp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vasp

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	v3 "github.com/rmera/govasp/v3"
)

//Lookups in the auxiliary files that VASP leaves next to EIGENVAL,
//DOSCAR and vasprun.xml. All of them report an absent file as "not found".

const (
	OUTCAR  = "OUTCAR"
	INCAR   = "INCAR"
	KPOINTS = "KPOINTS"
	DOSCAR  = "DOSCAR"
)

// The line in OUTCAR that precedes the list of k-points and carries
// the path labels from the KPOINTS comment line.
const kpointsMarker = "k-points in units of 2pi/SCALE and weight:"

var fermiLine = regexp.MustCompile(`^\s*E-fermi :`)

// scanFile calls f for each line of name until f returns stop=true.
// It returns present=false if the file doesn't exist.
func scanFile(name string, f func(n int, line string) (stop bool, err error)) (present bool, err error) {
	r, err := openInput(name)
	if err != nil {
		if isAbsent(err) {
			return false, nil
		}
		return false, err
	}
	defer r.Close()
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 0; s.Scan(); n++ {
		stop, err := f(n, s.Text())
		if err != nil || stop {
			return true, err
		}
	}
	return true, s.Err()
}

// OutcarFermi looks for the Fermi energy in the OUTCAR in dir. As OUTCAR
// may contain several "E-fermi" lines, the last one is used.
func OutcarFermi(dir string) Source[float64] {
	name := filepath.Join(dir, OUTCAR)
	return Source[float64]{Name: OUTCAR, Lookup: func() (float64, bool, error) {
		var ef float64
		var found bool
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			if !fermiLine.MatchString(line) {
				return false, nil
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return true, malformed(name, fmt.Sprintf("line %d", n+1), "E-fermi line too short", "OutcarFermi")
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return true, malformed(name, fmt.Sprintf("line %d", n+1), err.Error(), "OutcarFermi")
			}
			ef, found = v, true
			return false, nil
		})
		return ef, found, err
	}}
}

// DoscarFermi reads the Fermi energy from the 4th number of the 6th line
// of the DOSCAR in dir.
func DoscarFermi(dir string) Source[float64] {
	name := filepath.Join(dir, DOSCAR)
	return Source[float64]{Name: DOSCAR, Lookup: func() (float64, bool, error) {
		var ef float64
		var found bool
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			if n < 5 {
				return false, nil
			}
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return true, malformed(name, "line 6", "expected at least 4 fields", "DoscarFermi")
			}
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return true, malformed(name, "line 6", err.Error(), "DoscarFermi")
			}
			ef, found = v, true
			return true, nil
		})
		return ef, found, err
	}}
}

// OutcarTag reads the integer value of an INCAR tag as echoed in the
// OUTCAR in dir, e.g. "ISPIN  =      2    spin polarized calculation?".
func OutcarTag(dir, tag string) Source[int] {
	name := filepath.Join(dir, OUTCAR)
	re := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(tag) + `\s*=\s*(\S+)`)
	return Source[int]{Name: OUTCAR, Lookup: func() (int, bool, error) {
		var v int
		var found bool
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			m := re.FindStringSubmatch(line)
			if m == nil {
				return false, nil
			}
			i, err := strconv.Atoi(m[1])
			if err != nil {
				return true, malformed(name, fmt.Sprintf("line %d", n+1), err.Error(), "OutcarTag: "+tag)
			}
			v, found = i, true
			return true, nil
		})
		return v, found, err
	}}
}

// IncarTag reads the integer value of tag from the INCAR in dir. If the
// INCAR exists but doesn't set the tag and hasDefault is true, def is returned,
// as VASP itself would do.
func IncarTag(dir, tag string, def int, hasDefault bool) Source[int] {
	name := filepath.Join(dir, INCAR)
	return Source[int]{Name: INCAR, Lookup: func() (int, bool, error) {
		var v int
		var found bool
		present, err := scanFile(name, func(n int, line string) (bool, error) {
			if i := strings.IndexAny(line, "#!"); i >= 0 {
				line = line[:i]
			}
			for _, stmt := range strings.Split(line, ";") {
				key, val, ok := strings.Cut(stmt, "=")
				if !ok || !strings.EqualFold(strings.TrimSpace(key), tag) {
					continue
				}
				fields := strings.Fields(val)
				if len(fields) == 0 {
					return true, malformed(name, fmt.Sprintf("line %d", n+1), tag+" without value", "IncarTag")
				}
				i, err := strconv.Atoi(fields[0])
				if err != nil {
					return true, malformed(name, fmt.Sprintf("line %d", n+1), err.Error(), "IncarTag")
				}
				v, found = i, true
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			return 0, false, err
		}
		if present && !found && hasDefault {
			return def, true, nil
		}
		return v, found, nil
	}}
}

// KpointsPerSegment reads the number of k-points per line segment from
// the second line of the line-mode KPOINTS file in dir.
func KpointsPerSegment(dir string) Source[int] {
	name := filepath.Join(dir, KPOINTS)
	return Source[int]{Name: KPOINTS, Lookup: func() (int, bool, error) {
		var v int
		var found bool
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			if n < 1 {
				return false, nil
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				return true, malformed(name, "line 2", "empty line", "KpointsPerSegment")
			}
			i, err := strconv.Atoi(fields[0])
			if err != nil {
				return true, malformed(name, "line 2", err.Error(), "KpointsPerSegment")
			}
			v, found = i, true
			return true, nil
		})
		return v, found, err
	}}
}

func splitLabels(s string) []string {
	parts := strings.Split(strings.TrimSpace(s), "-")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, strings.TrimSpace(p))
	}
	return labels
}

// KpointsLabels reads the dash-separated path labels ("G-X-M-G") from the
// comment line of the KPOINTS file in dir.
func KpointsLabels(dir string) Source[[]string] {
	name := filepath.Join(dir, KPOINTS)
	return Source[[]string]{Name: KPOINTS, Lookup: func() ([]string, bool, error) {
		var labels []string
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			if strings.TrimSpace(line) != "" {
				labels = splitLabels(line)
			}
			return true, nil
		})
		return labels, labels != nil, err
	}}
}

// OutcarLabels reads the path labels that OUTCAR echoes in its k-point
// list header.
func OutcarLabels(dir string) Source[[]string] {
	name := filepath.Join(dir, OUTCAR)
	return Source[[]string]{Name: OUTCAR, Lookup: func() ([]string, bool, error) {
		var labels []string
		_, err := scanFile(name, func(n int, line string) (bool, error) {
			i := strings.Index(line, kpointsMarker)
			if i < 0 {
				return false, nil
			}
			rest := line[i+len(kpointsMarker):]
			if strings.TrimSpace(rest) != "" {
				labels = splitLabels(rest)
			}
			return true, nil
		})
		return labels, labels != nil, err
	}}
}

// OutcarKPoints reads the n k-points (in units of 2pi/SCALE) that follow the
// k-point list header in the OUTCAR in dir.
func OutcarKPoints(dir string, n int) Source[*v3.Matrix] {
	name := filepath.Join(dir, OUTCAR)
	return Source[*v3.Matrix]{Name: OUTCAR, Lookup: func() (*v3.Matrix, bool, error) {
		var kpts *v3.Matrix
		read := -1
		_, err := scanFile(name, func(ln int, line string) (bool, error) {
			if read < 0 {
				if strings.Contains(line, kpointsMarker) {
					kpts = v3.Zeros(n)
					read = 0
				}
				return false, nil
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return true, malformed(name, fmt.Sprintf("line %d", ln+1), "expected 3 k-point coordinates", "OutcarKPoints")
			}
			for j := 0; j < 3; j++ {
				c, err := strconv.ParseFloat(fields[j], 64)
				if err != nil {
					return true, malformed(name, fmt.Sprintf("line %d", ln+1), err.Error(), "OutcarKPoints")
				}
				kpts.Set(read, j, c)
			}
			read++
			return read == n, nil
		})
		if err != nil {
			return nil, false, err
		}
		if kpts != nil && read != n {
			return nil, false, malformed(name, kpointsMarker, fmt.Sprintf("found %d k-points, expected %d", read, n), "OutcarKPoints")
		}
		return kpts, kpts != nil, nil
	}}
}
