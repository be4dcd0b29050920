/*
 * conversion.go, part of govasp.
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

//This provides physical constants and conversion factors, SI units.

const (
	HBar             = 1.054571726e-34 //J s
	ElementaryCharge = 1.6021176462e-19
	ElectronMass     = 9.10938291e-31 //kg
	//Length unit of the linearized k axis. Curvatures in eV per axis unit squared
	//are converted with it.
	KAxisScale = 6.3743775177e-10 //m
)
